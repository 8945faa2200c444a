// Package docs serves the OpenAPI document backing the swagger UI.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
