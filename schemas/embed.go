// Package schemas holds the JSON Schema documents shipped with the advisor.
package schemas

import _ "embed"

// DatasetFile is the file name of the dataset schema.
const DatasetFile = "dataset.schema.json"

// Dataset is the JSON Schema every dataset file must satisfy.
//
//go:embed dataset.schema.json
var Dataset string
