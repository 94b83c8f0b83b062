package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://questionbank.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// bankFile is the on-disk layout of a question bank.
type bankFile struct {
	Questions []Question `json:"questions"`
}

// LoadFile reads a JSON or YAML question bank from path, validates it
// against the bank schema and returns the resulting Bank.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a JSON or YAML document into a Bank. YAML is a superset of
// JSON so both go through the YAML decoder.
func Parse(data []byte) (*Bank, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	// Round-trip through encoding/json so the validator sees plain
	// map[string]any / []any / float64 values.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var inst any
	if err := json.Unmarshal(normalized, &inst); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	schema, err := bankSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f bankFile
	if err := json.Unmarshal(normalized, &f); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return New(f.Questions)
}

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}
