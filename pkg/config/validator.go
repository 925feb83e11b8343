package config

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks a settings file against the embedded JSON schema before
// it is decoded, so typos in key names or enum values fail up front.
func Validate(configFile string) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + configFile)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate settings schema: %w", err)
	}

	if !result.Valid() {
		fmt.Fprintf(os.Stderr, "Settings validation errors:\n")
		for _, desc := range result.Errors() {
			fmt.Fprintf(os.Stderr, "  - %s\n", desc)
		}
		return fmt.Errorf("settings file %s is not valid", configFile)
	}

	return nil
}
