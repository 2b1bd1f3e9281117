package inference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseEntry decodes an extracted JSON substring and validates it against the
// entry schema. A decode failure wraps ErrMalformedResponse; a shape or range
// failure returns a *SchemaError. Keys beyond the required four are ignored.
func ParseEntry(jsonText string) (BacklogEntry, error) {
	decoder := json.NewDecoder(strings.NewReader(jsonText))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return BacklogEntry{}, fmt.Errorf("json.Decode(%s): %v > %w", jsonText, err, ErrMalformedResponse)
	}
	if decoder.More() {
		return BacklogEntry{}, fmt.Errorf("json.Decode(%s): trailing data after JSON value > %w", jsonText, ErrMalformedResponse)
	}

	data, ok := decoded.(map[string]any)
	if !ok {
		return BacklogEntry{}, &SchemaError{Reason: fmt.Sprintf("expected a JSON object, got %T", decoded)}
	}

	title, err := stringField(data, "title")
	if err != nil {
		return BacklogEntry{}, err
	}
	difficulty, err := intField(data, "difficulty")
	if err != nil {
		return BacklogEntry{}, err
	}
	description, err := stringField(data, "description")
	if err != nil {
		return BacklogEntry{}, err
	}
	timestamp, err := stringField(data, "timestamp")
	if err != nil {
		return BacklogEntry{}, err
	}

	if difficulty < 1 || difficulty > 5 {
		return BacklogEntry{}, &SchemaError{
			Field:  "difficulty",
			Reason: fmt.Sprintf("must be between 1 and 5, got %d", difficulty),
		}
	}

	return BacklogEntry{
		Title:       title,
		Difficulty:  difficulty,
		Description: description,
		Timestamp:   timestamp,
	}, nil
}

func stringField(data map[string]any, key string) (string, error) {
	value, ok := data[key]
	if !ok {
		return "", &SchemaError{Field: key, Reason: "missing"}
	}
	text, ok := value.(string)
	if !ok {
		return "", &SchemaError{Field: key, Reason: fmt.Sprintf("expected a string, got %T", value)}
	}
	return text, nil
}

func intField(data map[string]any, key string) (int, error) {
	value, ok := data[key]
	if !ok {
		return 0, &SchemaError{Field: key, Reason: "missing"}
	}
	number, ok := value.(json.Number)
	if !ok {
		return 0, &SchemaError{Field: key, Reason: fmt.Sprintf("expected an integer, got %T", value)}
	}
	parsed, err := number.Int64()
	if err != nil {
		return 0, &SchemaError{Field: key, Reason: fmt.Sprintf("expected an integer, got %s", number)}
	}
	return int(parsed), nil
}
