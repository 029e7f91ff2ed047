package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string id", input: `"abc-123"`, want: "abc-123"},
		{name: "integer id", input: `1700000000000`, want: "1700000000000"},
		{name: "null id", input: `null`, want: ""},
		{name: "empty string", input: `""`, want: ""},
		{name: "boolean rejected", input: `true`, wantErr: true},
		{name: "object rejected", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestBaseDecodesLegacyNumericID(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"id": 42, "title": "Pongal", "date": "2026-01-14"}`), &ev)
	require.NoError(t, err)
	assert.Equal(t, ID("42"), ev.ID)
	assert.Equal(t, "Pongal", ev.Title)
}

func TestIDMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(Base{ID: "42"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"42"`)
}
