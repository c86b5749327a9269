package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type optionsRepoStub struct {
	// options keyed by entity tag and parent id; parent 0 means unscoped.
	options map[string]map[int64][]models.Option
	calls   int
}

func (s *optionsRepoStub) ListOptions(ctx context.Context, entity models.Entity, fkColumn string, parentID *int64) ([]models.Option, error) {
	s.calls++
	var parent int64
	if parentID != nil {
		parent = *parentID
	}
	return s.options[entity.Tag][parent], nil
}

type stateStoreStub struct {
	values map[string][]byte
}

func newStateStoreStub() *stateStoreStub {
	return &stateStoreStub{values: map[string][]byte{}}
}

func (s *stateStoreStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stateStoreStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

func (s *stateStoreStub) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func cascadeFixtureRepo() *optionsRepoStub {
	return &optionsRepoStub{options: map[string]map[int64][]models.Option{
		"university": {0: {{ID: 1, Name: "State University"}}},
		"institute": {
			1: {{ID: 10, Name: "Engineering College"}, {ID: 11, Name: "Science College"}},
			2: {{ID: 20, Name: "Arts College"}},
		},
		"program": {
			10: {{ID: 100, Name: "B.Tech"}},
		},
	}}
}

func TestOptionsChildLevelWithoutParentIsEmpty(t *testing.T) {
	repo := cascadeFixtureRepo()
	svc := NewOptionsService(repo, newStateStoreStub(), nil)

	options, err := svc.Options(context.Background(), models.LevelInstitute, nil)
	require.NoError(t, err)
	assert.Empty(t, options)
	assert.Zero(t, repo.calls, "an unscoped child query must never reach the repository")
}

func TestOptionsRootLevelNeedsNoParent(t *testing.T) {
	repo := cascadeFixtureRepo()
	svc := NewOptionsService(repo, newStateStoreStub(), nil)

	options, err := svc.Options(context.Background(), models.LevelUniversity, nil)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "State University", options[0].Name)
}

func TestSelectClearsLowerLevelsAndLoadsChildren(t *testing.T) {
	repo := cascadeFixtureRepo()
	store := newStateStoreStub()
	svc := NewOptionsService(repo, store, nil)
	ctx := context.Background()

	state, err := svc.Select(ctx, "sess-1", models.LevelUniversity, 1)
	require.NoError(t, err)
	require.NotNil(t, state.Selected[models.LevelUniversity])
	assert.Equal(t, int64(1), *state.Selected[models.LevelUniversity])
	assert.Len(t, state.Options[models.LevelInstitute], 2)

	state, err = svc.Select(ctx, "sess-1", models.LevelInstitute, 10)
	require.NoError(t, err)
	assert.Len(t, state.Options[models.LevelProgram], 1)

	// Reselecting the university drops everything chosen below it.
	state, err = svc.Select(ctx, "sess-1", models.LevelUniversity, 2)
	require.NoError(t, err)
	assert.Nil(t, state.Selected[models.LevelInstitute])
	assert.Nil(t, state.Selected[models.LevelProgram])
	assert.Nil(t, state.Options[models.LevelProgram])
	require.Len(t, state.Options[models.LevelInstitute], 1)
	assert.Equal(t, "Arts College", state.Options[models.LevelInstitute][0].Name)
}

func TestStateSurvivesStoreRoundTrip(t *testing.T) {
	repo := cascadeFixtureRepo()
	store := newStateStoreStub()
	svc := NewOptionsService(repo, store, nil)
	ctx := context.Background()

	_, err := svc.Select(ctx, "sess-2", models.LevelUniversity, 1)
	require.NoError(t, err)

	state, err := svc.State(ctx, "sess-2")
	require.NoError(t, err)
	require.NotNil(t, state.Selected[models.LevelUniversity])
	assert.Equal(t, int64(1), *state.Selected[models.LevelUniversity])
	assert.Len(t, state.Options[models.LevelInstitute], 2)
}

func TestClearFromKeepsUpperSelections(t *testing.T) {
	repo := cascadeFixtureRepo()
	svc := NewOptionsService(repo, newStateStoreStub(), nil)
	ctx := context.Background()

	_, err := svc.Select(ctx, "sess-3", models.LevelUniversity, 1)
	require.NoError(t, err)
	_, err = svc.Select(ctx, "sess-3", models.LevelInstitute, 10)
	require.NoError(t, err)

	state, err := svc.ClearFrom(ctx, "sess-3", models.LevelInstitute)
	require.NoError(t, err)
	assert.NotNil(t, state.Selected[models.LevelUniversity])
	assert.Nil(t, state.Selected[models.LevelInstitute])
	assert.Nil(t, state.Options[models.LevelProgram])
}

func TestResetDiscardsState(t *testing.T) {
	repo := cascadeFixtureRepo()
	store := newStateStoreStub()
	svc := NewOptionsService(repo, store, nil)
	ctx := context.Background()

	_, err := svc.Select(ctx, "sess-4", models.LevelUniversity, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "sess-4"))

	state, err := svc.State(ctx, "sess-4")
	require.NoError(t, err)
	assert.Nil(t, state.Selected[models.LevelUniversity])
}

func TestOptionsUnknownLevel(t *testing.T) {
	svc := NewOptionsService(cascadeFixtureRepo(), newStateStoreStub(), nil)

	_, err := svc.Options(context.Background(), models.CascadeLevel(99), nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnknownEntity.Code, appErr.Code)
}
