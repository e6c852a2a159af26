package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://app-planner.local/schema/snapshot.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load snapshot schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Problem is one schema violation, located by a slash path into the document.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type SchemaError struct {
	Problems []Problem
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 0 {
		return "snapshot does not match schema"
	}
	parts := make([]string, 0, len(e.Problems))
	for i, p := range e.Problems {
		if i == 3 {
			parts = append(parts, fmt.Sprintf("(+%d more)", len(e.Problems)-3))
			break
		}
		if p.Path == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, p.Path+": "+p.Message)
	}
	return "snapshot does not match schema: " + strings.Join(parts, "; ")
}

// ValidateJSON checks a raw JSON snapshot document against the embedded schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse json snapshot: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		out := &SchemaError{}
		collectProblems(out, ve)
		return out
	}
	return nil
}

func collectProblems(out *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		out.Problems = append(out.Problems, Problem{
			Path:    strings.TrimPrefix(err.InstanceLocation, "/"),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectProblems(out, cause)
	}
}
