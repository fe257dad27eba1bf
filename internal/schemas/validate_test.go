package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateDataset(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{
			name:      "minimal",
			doc:       `{"departments": {}}`,
			wantError: false,
		},
		{
			name: "full dataset with lenient numbers",
			doc: `{
				"departments": {"CS": [{"code": "CS101", "name": "Intro"}]},
				"offerings": {"CS101": [{"year": "2023", "semester": "Fall", "instructors": ["A Prof"], "course_gpa": "3.6"}]},
				"professors": [{"name": "A Prof", "rating": 4.1, "tags": null, "difficulty": "N/A"}]
			}`,
			wantError: false,
		},
		{
			name:      "missing departments",
			doc:       `{"professors": []}`,
			wantError: true,
		},
		{
			name:      "catalog entry without code",
			doc:       `{"departments": {"CS": [{"name": "Intro"}]}}`,
			wantError: true,
		},
		{
			name:      "instructors not strings",
			doc:       `{"departments": {}, "offerings": {"CS101": [{"instructors": [42]}]}}`,
			wantError: true,
		},
		{
			name:      "rating as object",
			doc:       `{"departments": {}, "professors": [{"name": "X", "rating": {"v": 1}}]}`,
			wantError: true,
		},
		{
			name:      "unknown top-level key",
			doc:       `{"departments": {}, "students": []}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataset([]byte(tt.doc))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateDataset_MalformedJSON(t *testing.T) {
	err := ValidateDataset([]byte("{ invalid json }"))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestValidateDatasetFile(t *testing.T) {
	path := writeFile(t, "dataset.json", `{"departments": {"CE": []}}`)
	assert.NoError(t, ValidateDatasetFile(path))

	err := ValidateDatasetFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read dataset")
}

func TestValidateJSON_Files(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", simpleSchema)

	assert.NoError(t, ValidateJSON(schemaPath, writeFile(t, "ok.json", `{"name": "test"}`)))

	err := ValidateJSON(schemaPath, writeFile(t, "bad.json", `{"name": 7}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidateJSON_NotFound(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", simpleSchema)

	err := ValidateJSON(filepath.Join(t.TempDir(), "nope.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(simpleSchema, `{"name": "test"}`))

	err := ValidateJSONString(simpleSchema, `{"age": 30}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "departments", Message: "is required"},
			{Field: "professors.0.name", Message: "must be a string"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. departments")
	assert.Contains(t, msg, "2. professors.0.name")
}
