package document

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// ErrSchema is returned when a document does not match the sequence schema.
var ErrSchema = errors.New("document does not match schema")

var documentSchema = gojsonschema.NewBytesLoader(schemaJSON)

// Schema returns the JSON schema of sequence documents.
func Schema() []byte {
	return schemaJSON
}

// ValidateSchema checks a generically decoded document (maps, slices and
// scalars) against the sequence schema.
func ValidateSchema(v any) error {
	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		msgs = append(msgs, resultErr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}
