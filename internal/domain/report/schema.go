package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed report.schema.json
var schemaSource []byte

const schemaURL = "https://gltf-validator.local/report.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func reportSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("report schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("report schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// SchemaJSON returns the embedded JSON Schema describing the canonical wire form.
func SchemaJSON() []byte {
	return bytes.Clone(schemaSource)
}

// ValidateSchema checks a raw payload against the embedded JSON Schema.
// It is stricter than Decode: optional members must not be null and severity
// must be a bare integer.
func ValidateSchema(data []byte) error {
	sch, err := reportSchema()
	if err != nil {
		return err
	}
	text, err := coerceText(data)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return mapError("", "", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &DecodeError{Kind: KindMalformed, Expected: "end of input", Actual: "trailing data"}
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("report schema validation failed: %w", err)
	}
	return nil
}
