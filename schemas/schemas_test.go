package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", DatasetFile))
	require.NoError(t, err, "should be able to read schema file")

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")
	assert.Equal(t, "object", v["type"])
	assert.Contains(t, v, "definitions")
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(Dataset))
	require.NoError(t, err, "embedded dataset schema should compile")
}

func TestEmbeddedMatchesFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", DatasetFile))
	require.NoError(t, err)
	assert.Equal(t, string(data), Dataset)
}
