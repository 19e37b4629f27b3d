package httpadapter

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPISpecYAML []byte

// LoadOpenAPIDocument parses and validates the bundled API description and
// returns it rendered as JSON for the /v1/openapi.json endpoint.
func LoadOpenAPIDocument() ([]byte, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpecYAML)
	if err != nil {
		return nil, fmt.Errorf("parse api description: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate api description: %w", err)
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("render api description: %w", err)
	}
	return raw, nil
}
