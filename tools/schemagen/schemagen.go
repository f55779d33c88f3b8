// Package main generates JSON schemas for the astforge HTTP and MCP payloads.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/astforge/cmd/astforge/commands"
	"github.com/Sumatoshi-tech/astforge/pkg/factory"
	"github.com/Sumatoshi-tech/astforge/pkg/mcp"
	"github.com/Sumatoshi-tech/astforge/pkg/render"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Schema represents a JSON Schema.
type Schema struct {
	Schema      string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// payloads lists every generated schema by file name.
func payloads() map[string]any {
	return map[string]any{
		"api_print_request":     &commands.PrintRequest{},
		"api_print_response":    &commands.PrintResponse{},
		"api_validate_request":  &commands.ValidateRequest{},
		"api_validate_response": &commands.ValidateResponse{},
		"mcp_print_input":       &mcp.PrintInput{},
		"mcp_validate_input":    &mcp.ValidateInput{},
		"mcp_operations_input":  &mcp.OperationsInput{},
		"printer_overrides":     &render.Overrides{},
		"operation":             &factory.OpDef{},
	}
}

func main() {
	var outputDir string

	flag.StringVar(&outputDir, "o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	err := run(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("All schemas generated successfully")
}

func run(outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	all := payloads()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		err = writeSchema(outputDir, name, generateSchema(name, all[name]))
		if err != nil {
			return fmt.Errorf("write schema for %s: %w", name, err)
		}

		fmt.Printf("Generated schema for %s\n", name)
	}

	return nil
}

func generateSchema(name string, v any) *Schema {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	defs := make(map[string]*Schema)
	props, required := structToProperties(t, defs)

	schema := &Schema{
		Schema:      "https://json-schema.org/draft-07/schema#",
		Title:       strings.ReplaceAll(name, "_", " "),
		Description: fmt.Sprintf("JSON schema for the astforge %s payload", t.Name()),
		Type:        "object",
		Properties:  props,
		Required:    required,
	}

	if len(defs) > 0 {
		schema.Definitions = defs
	}

	return schema
}

func structToProperties(t reflect.Type, defs map[string]*Schema) (map[string]*Schema, []string) {
	props := make(map[string]*Schema)

	var required []string

	for i := range t.NumField() {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")

		if jsonTag == "-" || jsonTag == "" {
			continue
		}

		jsonName, opts, _ := strings.Cut(jsonTag, ",")

		fieldSchema := typeToSchema(field.Type, defs)
		if desc := field.Tag.Get("jsonschema"); desc != "" && fieldSchema.Ref == "" {
			fieldSchema.Description = desc
		}

		props[jsonName] = fieldSchema

		if !strings.Contains(opts, "omitempty") && field.Type.Kind() != reflect.Ptr {
			required = append(required, jsonName)
		}
	}

	sort.Strings(required)

	return props, required
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

func typeToSchema(t reflect.Type, defs map[string]*Schema) *Schema {
	if t == rawMessageType {
		return &Schema{Description: "Serialized node document: one node or an array of nodes"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Slice:
		return &Schema{
			Type:  "array",
			Items: typeToSchema(t.Elem(), defs),
		}

	case reflect.Map:
		return &Schema{
			Type: "object",
			Description: fmt.Sprintf("Map with %s keys and %s values",
				t.Key().Kind().String(), t.Elem().Kind().String()),
		}

	case reflect.Struct:
		defName := t.Name()
		if defName == "" {
			props, required := structToProperties(t, defs)

			return &Schema{Type: "object", Properties: props, Required: required}
		}

		if _, exists := defs[defName]; !exists {
			defs[defName] = &Schema{}
			props, required := structToProperties(t, defs)
			defs[defName] = &Schema{Type: "object", Properties: props, Required: required}
		}

		return &Schema{Ref: "#/definitions/" + defName}

	case reflect.Ptr:
		return typeToSchema(t.Elem(), defs)

	case reflect.Interface:
		return &Schema{}

	default:
		return &Schema{Type: "object"}
	}
}

func writeSchema(dir, name string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	path := filepath.Join(dir, name+".json")

	return os.WriteFile(path, append(data, '\n'), filePerm)
}
