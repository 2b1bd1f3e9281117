package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name     string
		jsonText string

		want            BacklogEntry
		wantErr         error
		wantErrContains string
	}{
		{
			name:     "valid entry",
			jsonText: `{"title":"Add OAuth login flow","difficulty":3,"description":"support google and github","timestamp":"2025-06-17T15:00:00Z"}`,
			want: BacklogEntry{
				Title:       "Add OAuth login flow",
				Difficulty:  3,
				Description: "support google and github",
				Timestamp:   "2025-06-17T15:00:00Z",
			},
		},
		{
			name:     "extra keys are ignored",
			jsonText: `{"title":"A","difficulty":1,"description":"d","timestamp":"2025-01-01T00:00:00Z","notes":"ignored"}`,
			want: BacklogEntry{
				Title:       "A",
				Difficulty:  1,
				Description: "d",
				Timestamp:   "2025-01-01T00:00:00Z",
			},
		},
		{
			name:     "difficulty at the upper bound",
			jsonText: `{"title":"A","difficulty":5,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			want: BacklogEntry{
				Title:       "A",
				Difficulty:  5,
				Description: "d",
				Timestamp:   "2025-01-01T00:00:00Z",
			},
		},
		{
			name:            "difficulty below range",
			jsonText:        `{"title":"A","difficulty":0,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: `field "difficulty": must be between 1 and 5, got 0`,
		},
		{
			name:            "difficulty above range",
			jsonText:        `{"title":"A","difficulty":6,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: `field "difficulty": must be between 1 and 5, got 6`,
		},
		{
			name:            "difficulty as a float",
			jsonText:        `{"title":"A","difficulty":3.5,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: "expected an integer, got 3.5",
		},
		{
			name:            "difficulty as a string",
			jsonText:        `{"title":"A","difficulty":"3","description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: "expected an integer, got string",
		},
		{
			name:            "missing title",
			jsonText:        `{"difficulty":3,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: `field "title": missing`,
		},
		{
			name:            "missing timestamp",
			jsonText:        `{"title":"A","difficulty":3,"description":"d"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: `field "timestamp": missing`,
		},
		{
			name:            "title is not a string",
			jsonText:        `{"title":7,"difficulty":3,"description":"d","timestamp":"2025-01-01T00:00:00Z"}`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: `field "title": expected a string`,
		},
		{
			name:            "top level value is not an object",
			jsonText:        `[{"title":"A"}]`,
			wantErr:         ErrSchemaViolation,
			wantErrContains: "expected a JSON object",
		},
		{
			name:     "invalid JSON",
			jsonText: `{"title":"A","difficulty":`,
			wantErr:  ErrMalformedResponse,
		},
		{
			name:     "trailing data after the object",
			jsonText: `{"title":"A","difficulty":3,"description":"d","timestamp":"t"} trailing prose`,
			wantErr:  ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.jsonText)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErrContains != "" {
					assert.Contains(t, err.Error(), tt.wantErrContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntry_SchemaErrorField(t *testing.T) {
	_, err := ParseEntry(`{"title":"A","difficulty":6,"description":"d","timestamp":"t"}`)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "difficulty", schemaErr.Field)
}
