package protocol

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateWithSchema checks a step config against a JSON schema and
// returns one message per violation. A nil schema accepts everything; an
// unloadable schema is reported as a single message rather than accepted
// silently.
func ValidateWithSchema(schema, config map[string]any) []string {
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return []string{fmt.Sprintf("config schema validation failed: %v", err)}
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return messages
}
