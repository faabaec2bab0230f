package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseSchemas decodes a schema document holding an ordered list of form
// schemas. JSON documents are detected by their leading token; anything else
// is decoded as YAML. Every decoded schema is validated before the list is
// returned.
func ParseSchemas(data []byte) ([]FormSchema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Error{Reason: "document is empty"}
	}

	var forms []FormSchema
	if looksLikeJSON(data) {
		if err := json.Unmarshal(data, &forms); err != nil {
			return nil, fmt.Errorf("schema: decode json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &forms); err != nil {
			return nil, fmt.Errorf("schema: decode yaml: %w", err)
		}
	}

	for _, form := range forms {
		if err := Validate(form); err != nil {
			return nil, err
		}
	}
	return forms, nil
}

// ParseSchema decodes a document holding a single form schema.
func ParseSchema(data []byte) (FormSchema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return FormSchema{}, &Error{Reason: "document is empty"}
	}

	var form FormSchema
	if looksLikeJSON(data) {
		if err := json.Unmarshal(data, &form); err != nil {
			return FormSchema{}, fmt.Errorf("schema: decode json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &form); err != nil {
			return FormSchema{}, fmt.Errorf("schema: decode yaml: %w", err)
		}
	}

	if err := Validate(form); err != nil {
		return FormSchema{}, err
	}
	return form, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}
