// Package schemas embeds the JSON Schema documents shipped with the harvester.
package schemas

import _ "embed"

// Record is the JSON Schema for one line of an output file.
//
//go:embed record.schema.json
var Record string
