// Package api carries the embedded API schema document.
package api

import _ "embed"

// Schema is the OpenAPI document served at the root path.
//
//go:embed openapi.yaml
var Schema []byte
