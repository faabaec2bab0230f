// Package openapi derives form schemas from OpenAPI documents. Each mutating
// operation with a JSON request body becomes one form whose fields mirror the
// body's properties, so a service's spec can feed the form runtime without
// hand-written schemas.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrun/pkg/schema"
)

// extensionKey namespaces the vendor extension carrying form-runtime hints
// (dynamic option sources and visibility rules) inside a property schema.
const extensionKey = "x-formrun"

// Option customises a Converter.
type Option func(*Converter)

// WithExternalRefs allows the underlying loader to chase external $ref
// pointers. Off by default to keep conversion offline.
func WithExternalRefs(enabled bool) Option {
	return func(c *Converter) {
		c.externalRefs = enabled
	}
}

// WithMethods restricts which HTTP methods produce forms. Defaults to the
// body-carrying methods POST, PUT, and PATCH.
func WithMethods(methods ...string) Option {
	return func(c *Converter) {
		if len(methods) > 0 {
			c.methods = methods
		}
	}
}

// Converter turns OpenAPI documents into form schemas.
type Converter struct {
	externalRefs bool
	methods      []string
}

// New constructs a Converter with defaults.
func New(options ...Option) *Converter {
	c := &Converter{
		methods: []string{"POST", "PUT", "PATCH"},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Forms parses the raw OpenAPI document and returns one validated form schema
// per eligible operation, ordered by form id.
func (c *Converter) Forms(ctx context.Context, raw []byte) ([]schema.FormSchema, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: c.externalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	var forms []schema.FormSchema
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range c.methods {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			form, ok, err := c.convertOperation(method, path, operation)
			if err != nil {
				return nil, err
			}
			if ok {
				forms = append(forms, form)
			}
		}
	}
	if len(forms) == 0 {
		return nil, errors.New("openapi: no operations with a convertible request body")
	}

	sort.Slice(forms, func(i, j int) bool { return forms[i].FormID < forms[j].FormID })
	for _, form := range forms {
		if err := schema.Validate(form); err != nil {
			return nil, fmt.Errorf("openapi: form %q: %w", form.FormID, err)
		}
	}
	return forms, nil
}

func (c *Converter) convertOperation(method, path string, operation *openapi3.Operation) (schema.FormSchema, bool, error) {
	body := requestBodySchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.FormSchema{}, false, nil
	}

	formID := operation.OperationID
	if formID == "" {
		formID = strings.ToLower(method) + strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)
	}
	title := operation.Summary
	if title == "" {
		title = formID
	}

	fields, err := convertProperties(formID, body)
	if err != nil {
		return schema.FormSchema{}, false, err
	}
	return schema.FormSchema{
		FormID: formID,
		Title:  title,
		Fields: fields,
	}, true, nil
}

func requestBodySchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertProperties(formID string, src *openapi3.Schema) ([]schema.Field, error) {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, err := convertProperty(formID, name, ref.Value, isRequired)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func convertProperty(formID, name string, src *openapi3.Schema, required bool) (schema.Field, error) {
	field := schema.Field{
		ID:       name,
		Label:    labelFor(name, src),
		Required: required,
	}

	switch propertyType(src) {
	case "object":
		children, err := convertProperties(formID, src)
		if err != nil {
			return schema.Field{}, err
		}
		field.Type = schema.FieldTypeGroup
		field.Fields = children
	case "array":
		field.Type = schema.FieldTypeCheckbox
		if src.Items != nil && src.Items.Value != nil {
			field.Options = enumStrings(src.Items.Value.Enum)
		}
	case "boolean":
		field.Type = schema.FieldTypeRadio
		field.Options = []string{"Yes", "No"}
	case "number", "integer":
		field.Type = schema.FieldTypeNumber
		field.Validation = numberValidation(src)
	default:
		field.Type = textualType(src)
		if field.Type == schema.FieldTypeSelect {
			field.Options = enumStrings(src.Enum)
		} else if src.Pattern != "" {
			field.Validation = &schema.Validation{Pattern: src.Pattern}
		}
	}

	if err := applyExtensions(formID, &field, src.Extensions); err != nil {
		return schema.Field{}, err
	}
	return field, nil
}

func propertyType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func textualType(src *openapi3.Schema) schema.FieldType {
	if len(src.Enum) > 0 {
		return schema.FieldTypeSelect
	}
	if src.Format == "date" || src.Format == "date-time" {
		return schema.FieldTypeDate
	}
	return schema.FieldTypeText
}

func numberValidation(src *openapi3.Schema) *schema.Validation {
	if src.Min == nil && src.Max == nil {
		return nil
	}
	validation := &schema.Validation{}
	if src.Min != nil {
		value := *src.Min
		validation.Min = &value
	}
	if src.Max != nil {
		value := *src.Max
		validation.Max = &value
	}
	return validation
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func labelFor(name string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return name
}

// applyExtensions maps the x-formrun vendor extension onto runtime hints:
//
//	x-formrun:
//	  dynamicOptions: {dependsOn, endpoint, method}
//	  visibility: {dependsOn, condition, value}
func applyExtensions(formID string, field *schema.Field, extensions map[string]any) error {
	raw, ok := extensions[extensionKey]
	if !ok {
		return nil
	}
	hints, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("openapi: form %q: field %q: %s must be an object", formID, field.ID, extensionKey)
	}

	if value, ok := hints["dynamicOptions"]; ok {
		mapped, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("openapi: form %q: field %q: dynamicOptions must be an object", formID, field.ID)
		}
		field.DynamicOptions = &schema.DynamicOptions{
			DependsOn: stringHint(mapped, "dependsOn"),
			Endpoint:  stringHint(mapped, "endpoint"),
			Method:    stringHint(mapped, "method"),
		}
	}
	if value, ok := hints["visibility"]; ok {
		mapped, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("openapi: form %q: field %q: visibility must be an object", formID, field.ID)
		}
		field.Visibility = &schema.Visibility{
			DependsOn: stringHint(mapped, "dependsOn"),
			Condition: stringHint(mapped, "condition"),
			Value:     stringHint(mapped, "value"),
		}
	}
	return nil
}

func stringHint(hints map[string]any, key string) string {
	value, _ := hints[key].(string)
	return value
}
