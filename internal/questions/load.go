package questions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed bank.json
var canonicalJSON []byte

//go:embed bank.schema.json
var bankSchemaJSON []byte

var (
	canonicalOnce sync.Once
	canonical     *Bank

	schemaOnce sync.Once
	bankSchema *jsonschema.Schema
	schemaErr  error
)

// bankFile is the on-disk representation of a question bank.
type bankFile struct {
	Version   string     `json:"version"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Canonical returns the built-in 24-question bank.
// It panics if the embedded bank is invalid, which is a build defect.
func Canonical() *Bank {
	canonicalOnce.Do(func() {
		b, err := Parse(canonicalJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded question bank: %v", err))
		}
		canonical = b
	})
	return canonical
}

// Load reads and validates a question bank file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a question bank, checks it against the bank JSON Schema
// and then against the structural rules scoring depends on.
func Parse(data []byte) (*Bank, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := compiledBankSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if err := validateBank(f); err != nil {
		return nil, err
	}
	return newBank(f.Version, f.Title, f.Questions), nil
}

// Marshal encodes the bank in the same format Parse accepts.
func (b *Bank) Marshal() ([]byte, error) {
	return json.MarshalIndent(bankFile{
		Version:   b.version,
		Title:     b.title,
		Questions: b.questions,
	}, "", "  ")
}

func compiledBankSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(bankSchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://question-bank.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		bankSchema, schemaErr = c.Compile(url)
	})
	return bankSchema, schemaErr
}
