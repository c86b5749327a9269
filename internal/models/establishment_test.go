package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeSelectClearsLowerLevels(t *testing.T) {
	state := &CascadeState{}
	state.Select(LevelUniversity, 1)
	state.Select(LevelInstitute, 10)
	state.Options[LevelProgram] = []Option{{ID: 100, Name: "B.Tech"}}
	state.Select(LevelProgram, 100)
	state.Select(LevelBranch, 1000)

	state.Select(LevelInstitute, 11)

	require.NotNil(t, state.Selected[LevelUniversity])
	assert.Equal(t, int64(1), *state.Selected[LevelUniversity])
	require.NotNil(t, state.Selected[LevelInstitute])
	assert.Equal(t, int64(11), *state.Selected[LevelInstitute])

	for l := int(LevelProgram); l < CascadeDepth; l++ {
		assert.Nil(t, state.Selected[l], "level %d should be cleared", l)
		assert.Empty(t, state.Options[l], "level %d options should be cleared", l)
	}
}

func TestCascadeStaleFetchDropped(t *testing.T) {
	state := &CascadeState{}
	state.Select(LevelUniversity, 1)

	stale := state.BeginFetch(LevelInstitute)

	// A newer selection at the same level supersedes the pending fetch.
	state.Select(LevelUniversity, 2)
	current := state.BeginFetch(LevelInstitute)

	applied := state.ApplyOptions(LevelInstitute, stale, []Option{{ID: 1, Name: "Old"}})
	assert.False(t, applied)
	assert.Empty(t, state.Options[LevelInstitute])

	applied = state.ApplyOptions(LevelInstitute, current, []Option{{ID: 2, Name: "New"}})
	assert.True(t, applied)
	require.Len(t, state.Options[LevelInstitute], 1)
	assert.Equal(t, "New", state.Options[LevelInstitute][0].Name)
}

func TestCascadeClearKeepsUpperLevels(t *testing.T) {
	state := &CascadeState{}
	state.Select(LevelUniversity, 1)
	state.Select(LevelInstitute, 10)
	state.Select(LevelProgram, 100)

	state.Clear(LevelInstitute)

	require.NotNil(t, state.Selected[LevelUniversity])
	assert.Nil(t, state.Selected[LevelInstitute])
	assert.Nil(t, state.Selected[LevelProgram])
}

func TestParseCascadeLevel(t *testing.T) {
	level, ok := ParseCascadeLevel("semester")
	require.True(t, ok)
	assert.Equal(t, LevelSemester, level)

	_, ok = ParseCascadeLevel("grade")
	assert.False(t, ok)
}
