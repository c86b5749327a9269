package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIDFallsBackToLegacyColumns(t *testing.T) {
	entity, ok := LookupEntity("university")
	require.True(t, ok)

	cases := []struct {
		name   string
		record map[string]interface{}
		want   int64
	}{
		{"uppercase legacy key", map[string]interface{}{"UNIVERSITY_ID": float64(7)}, 7},
		{"generic record id", map[string]interface{}{"record_id": json.Number("12")}, 12},
		{"plain id", map[string]interface{}{"id": int64(3)}, 3},
		{"numeric string", map[string]interface{}{"id": "42"}, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := entity.RecordID(tc.record)
			require.True(t, ok)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestRecordIDPrefersEntityColumn(t *testing.T) {
	entity, ok := LookupEntity("university")
	require.True(t, ok)

	id, found := entity.RecordID(map[string]interface{}{
		"id":            int64(99),
		"university_id": int64(5),
	})
	require.True(t, found)
	assert.Equal(t, int64(5), id)
}

func TestRecordIDMissing(t *testing.T) {
	entity, ok := LookupEntity("caste")
	require.True(t, ok)

	_, found := entity.RecordID(map[string]interface{}{"something_else": 1})
	assert.False(t, found)
}

func TestHumanizeLabel(t *testing.T) {
	assert.Equal(t, "Academic Year", HumanizeLabel("academic_year"))
	assert.Equal(t, "Is Active", HumanizeLabel("is_active"))
	assert.Equal(t, "Name", HumanizeLabel("name"))
}

func TestDecodeCollectionEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bare array", `[{"name":"A"},{"name":"B"}]`},
		{"status data", `{"status":"success","data":[{"name":"A"},{"name":"B"}]}`},
		{"results", `{"results":[{"name":"A"},{"name":"B"}]}`},
		{"data only", `{"data":[{"name":"A"},{"name":"B"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := DecodeCollection([]byte(tc.raw))
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "A", records[0]["name"])
		})
	}
}

func TestDecodeCollectionRejectsUnknownShape(t *testing.T) {
	_, err := DecodeCollection([]byte(`{"payload":[]}`))
	assert.Error(t, err)

	_, err = DecodeCollection([]byte(`"not a collection"`))
	assert.Error(t, err)
}

func TestNormalizePayloadMapsLegacyKeys(t *testing.T) {
	entity, ok := LookupEntity("caste")
	require.True(t, ok)

	fields := entity.NormalizePayload(map[string]interface{}{
		"NAME":       "General",
		"IS_ACTIVE":  true,
		"CREATED_BY": "ignored",
		"unknown":    "dropped",
	})
	assert.Equal(t, "General", fields["name"])
	assert.Equal(t, true, fields["is_active"])
	assert.NotContains(t, fields, "created_by")
	assert.NotContains(t, fields, "unknown")
}

func TestMissingRequired(t *testing.T) {
	entity, ok := LookupEntity("institute")
	require.True(t, ok)

	missing := entity.MissingRequired(map[string]interface{}{"name": "Engineering"})
	assert.Contains(t, missing, "university_id")

	missing = entity.MissingRequired(map[string]interface{}{
		"name":          "Engineering",
		"university_id": int64(1),
	})
	assert.Empty(t, missing)
}

func TestNormalizeMenuPath(t *testing.T) {
	assert.Equal(t, "/dashboard/master", NormalizeMenuPath("/dashboard/master/"))
	assert.Equal(t, "/dashboard/master", NormalizeMenuPath("/dashboard/master"))
	assert.Equal(t, "/", NormalizeMenuPath("/"))
}
