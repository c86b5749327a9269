package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind selects the input widget a client should render for a field.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldCheckbox  FieldKind = "checkbox"
	FieldDate      FieldKind = "date"
	FieldTime      FieldKind = "time"
	FieldReference FieldKind = "reference"
)

// FieldSpec describes one editable column of a master entity. The ordered
// field list replaces runtime key introspection: only listed fields are
// rendered and accepted on create/update.
type FieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	// RefEntity names the entity a reference field points at.
	RefEntity string `json:"ref_entity,omitempty"`
}

// Entity is the static descriptor of one master-data table. Legacy backends
// named identifier columns inconsistently, so every entity carries its own
// prioritized candidate lists for id and display-name resolution.
type Entity struct {
	Tag         string      `json:"tag"`
	Table       string      `json:"-"`
	DisplayName string      `json:"display_name"`
	MenuPath    string      `json:"menu_path"`
	IDColumns   []string    `json:"-"`
	NameColumns []string    `json:"-"`
	Fields      []FieldSpec `json:"fields"`
}

// IDColumn is the canonical identifier column for new rows.
func (e Entity) IDColumn() string {
	return e.IDColumns[0]
}

// Field returns the descriptor for a key, if listed.
func (e Entity) Field(key string) (FieldSpec, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RecordID resolves the identifier of a raw record by probing the entity's
// candidate columns in priority order. Keys match case-insensitively because
// legacy exports used upper-case column names.
func (e Entity) RecordID(raw map[string]interface{}) (int64, bool) {
	for _, candidate := range e.IDColumns {
		if value, ok := lookupKey(raw, candidate); ok {
			if id, ok := coerceID(value); ok {
				return id, true
			}
		}
	}
	return 0, false
}

// RecordName resolves the display name of a raw record.
func (e Entity) RecordName(raw map[string]interface{}) (string, bool) {
	for _, candidate := range e.NameColumns {
		if value, ok := lookupKey(raw, candidate); ok {
			if s, ok := value.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// NormalizePayload maps incoming keys onto the entity's schema keys,
// tolerating legacy upper-case naming. Unknown keys are dropped.
func (e Entity) NormalizePayload(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		lower := strings.ToLower(key)
		if _, ok := e.Field(lower); ok {
			out[lower] = value
		}
	}
	return out
}

// MissingRequired reports required schema fields absent or empty in fields.
func (e Entity) MissingRequired(fields map[string]interface{}) []string {
	var missing []string
	for _, f := range e.Fields {
		if !f.Required {
			continue
		}
		value, ok := fields[f.Key]
		if !ok || value == nil {
			missing = append(missing, f.Key)
			continue
		}
		if s, isStr := value.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}

func lookupKey(raw map[string]interface{}, key string) (interface{}, bool) {
	if value, ok := raw[key]; ok {
		return value, true
	}
	for k, value := range raw {
		if strings.EqualFold(k, key) {
			return value, true
		}
	}
	return nil, false
}

func coerceID(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// HumanizeLabel turns an internal field name into a display label.
func HumanizeLabel(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// SystemColumns are audit columns never exposed through the edit schema.
func SystemColumns() []string {
	return []string{"created_at", "updated_at", "created_by", "updated_by", "is_deleted", "deleted_at", "deleted_by"}
}

// DecodeCollection parses a legacy list payload. The old backend answered
// with three different envelopes depending on the screen, so all of
// {"status","data"}, {"results"}, {"data"} and a bare array are accepted.
func DecodeCollection(raw []byte) ([]map[string]interface{}, error) {
	var direct []map[string]interface{}
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Status  string                   `json:"status"`
		Data    []map[string]interface{} `json:"data"`
		Results []map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return nil, fmt.Errorf("decode collection: unrecognized envelope")
}
