package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name:        "validate-test",
	Description: "schema used by validation tests",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"name", "count"},
	},
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name": "x", "count": 3}`, false},
		{"missing required", `{"name": "x"}`, true},
		{"wrong type", `{"name": "x", "count": "three"}`, true},
		{"not json", `{broken`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(testSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Errorf("got %T, want *ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateJSONNilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`{"anything": true}`)); err != nil {
		t.Errorf("nil schema should skip validation, got %v", err)
	}
}

func TestCompiledSchemaIsCached(t *testing.T) {
	raw := json.RawMessage(`{"name": "x", "count": 1}`)
	if err := ValidateJSON(testSchema, raw); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if _, ok := schemaCache.Load(testSchema.Name); !ok {
		t.Error("compiled schema not cached after validation")
	}
}
