package contract

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// OperationID names the intake operation inside the document.
const OperationID = "createWorkflow"

const orderExtensionKey = "x-intake-order"

// Field describes one request property.
type Field struct {
	Name        string
	Label       string
	Description string
	Format      string
	Required    bool
	Order       int
}

// Secret reports whether the field should be masked when prompted.
func (f Field) Secret() bool {
	return f.Format == "password"
}

// Contract is the parsed intake contract.
type Contract struct {
	Method    string
	Path      string
	ServerURL string
	Summary   string
	Fields    []Field
}

// Endpoint joins the server URL and the operation path.
func (c *Contract) Endpoint() string {
	if c == nil {
		return ""
	}
	return strings.TrimRight(c.ServerURL, "/") + c.Path
}

// Field returns the field named name.
func (c *Contract) Field(name string) (Field, bool) {
	if c == nil {
		return Field{}, false
	}
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in order.
func (c *Contract) FieldNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		names = append(names, field.Name)
	}
	return names
}

// CheckFields verifies the contract declares exactly names, in the same order,
// all required.
func (c *Contract) CheckFields(names []string) error {
	got := c.FieldNames()
	if strings.Join(got, ",") != strings.Join(names, ",") {
		return fmt.Errorf("%w: contract declares %v, form uses %v", ErrFieldDrift, got, names)
	}
	for _, field := range c.Fields {
		if !field.Required {
			return fmt.Errorf("%w: field %q is optional in the contract", ErrFieldDrift, field.Name)
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default parses the embedded document once and returns the shared result.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), embeddedDocument)
	})
	return defaultContract, defaultErr
}

// MustDefault is Default that panics on failure; the embedded document is
// covered by tests.
func MustDefault() *Contract {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load parses and validates an OpenAPI document (JSON or YAML) and extracts
// the createWorkflow operation.
func Load(ctx context.Context, data []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: document payload is empty", ErrInvalidDocument)
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("%w: validate: %v", ErrInvalidDocument, err)
	}

	method, path, operation := findOperation(doc)
	if operation == nil {
		return nil, fmt.Errorf("%w: operation %q not found", ErrInvalidDocument, OperationID)
	}
	if !methodAllowed(method) {
		return nil, fmt.Errorf("%w: operation %q must be a POST, got %s", ErrInvalidDocument, OperationID, method)
	}

	schema, err := requestSchema(operation)
	if err != nil {
		return nil, err
	}

	out := &Contract{
		Method:  method,
		Path:    path,
		Summary: operation.Summary,
		Fields:  collectFields(schema),
	}
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		out.ServerURL = doc.Servers[0].URL
	}
	if len(out.Fields) == 0 {
		return nil, fmt.Errorf("%w: request schema declares no properties", ErrInvalidDocument)
	}
	return out, nil
}

func findOperation(doc *openapi3.T) (string, string, *openapi3.Operation) {
	if doc.Paths == nil {
		return "", "", nil
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation != nil && operation.OperationID == OperationID {
				return strings.ToUpper(method), path, operation
			}
		}
	}
	return "", "", nil
}

func requestSchema(operation *openapi3.Operation) (*openapi3.Schema, error) {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, fmt.Errorf("%w: operation has no request body", ErrInvalidDocument)
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("%w: request body is not application/json", ErrInvalidDocument)
	}
	return media.Schema.Value, nil
}

func collectFields(schema *openapi3.Schema) []Field {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	fields := make([]Field, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		field := Field{Name: name, Label: name}
		if ref != nil && ref.Value != nil {
			prop := ref.Value
			if title := strings.TrimSpace(prop.Title); title != "" {
				field.Label = title
			}
			field.Description = strings.TrimSpace(prop.Description)
			field.Format = prop.Format
			field.Order = extensionInt(prop.Extensions, orderExtensionKey)
		}
		_, field.Required = required[name]
		fields = append(fields, field)
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func extensionInt(extensions map[string]any, key string) int {
	raw, ok := extensions[key]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// methodAllowed is kept narrow: the intake surface only ever posts.
func methodAllowed(method string) bool {
	return method == http.MethodPost
}
