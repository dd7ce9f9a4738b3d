package contract

import (
	_ "embed"
)

//go:embed openapi/create-workflow.yaml
var embeddedDocument []byte

// Document returns a copy of the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), embeddedDocument...)
}
