package wire

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaFS contains the embedded JSON schema for serialized documents.
//
//go:embed schema/serialized-node.schema.json
var SchemaFS embed.FS

const schemaPath = "schema/serialized-node.schema.json"

// ErrSchemaViolation is returned when a document does not match the schema.
var ErrSchemaViolation = errors.New("document does not match the serialized node schema")

// SchemaError describes one schema violation.
type SchemaError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError carries every violation found in a document.
type ValidationError struct {
	Errors []SchemaError
}

// Error implements error.
func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))

	for _, se := range ve.Errors {
		parts = append(parts, se.Field+": "+se.Description)
	}

	return fmt.Sprintf("%s: %s", ErrSchemaViolation, strings.Join(parts, "; "))
}

// Unwrap returns ErrSchemaViolation.
func (ve *ValidationError) Unwrap() error {
	return ErrSchemaViolation
}

var (
	compiledSchema     *gojsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func loadSchema() (*gojsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		data, err := SchemaFS.ReadFile(schemaPath)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("read embedded schema: %w", err)

			return
		}

		compiledSchema, compiledSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if compiledSchemaErr != nil {
			compiledSchemaErr = fmt.Errorf("compile embedded schema: %w", compiledSchemaErr)
		}
	})

	return compiledSchema, compiledSchemaErr
}

// Validate checks a raw JSON document against the embedded schema. It returns
// a *ValidationError listing every violation when the document is invalid.
func Validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}

	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, SchemaError{
			Field:       re.Field(),
			Description: re.Description(),
		})
	}

	return verr
}
