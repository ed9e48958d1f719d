// Package spec embeds the OpenAPI description of the trip planner API.
// The document is written by hand and served at GET /openapi.yaml.
package spec

import _ "embed"

// OpenAPI is openapi.yaml verbatim.
//
//go:embed openapi.yaml
var OpenAPI []byte
