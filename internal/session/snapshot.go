package session

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/quiz"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot decode failures. All of them cause the snapshot to be discarded.
var (
	ErrSnapshotCorrupt      = errors.New("corrupt snapshot")
	ErrSnapshotVersion      = errors.New("unsupported snapshot version")
	ErrSnapshotIncompatible = errors.New("snapshot written for an incompatible question bank")
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

type snapshotFile struct {
	SchemaVersion int        `json:"schemaVersion"`
	BankVersion   string     `json:"bankVersion"`
	SavedAt       time.Time  `json:"savedAt,omitzero"`
	State         quiz.State `json:"state"`
}

// EncodeSnapshot serializes state together with the bank version it was
// recorded against.
func EncodeSnapshot(bank *questions.Bank, state quiz.State) ([]byte, error) {
	data, err := json.Marshal(snapshotFile{
		SchemaVersion: SnapshotVersion,
		BankVersion:   bank.Version(),
		SavedAt:       time.Now().UTC(),
		State:         state,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot. The document
// is checked against the snapshot JSON Schema before decoding, and the
// recorded bank version must share bank's major version. Structural
// consistency with the bank is left to quiz.Machine.Validate.
func DecodeSnapshot(bank *questions.Bank, data []byte) (quiz.State, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return quiz.State{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	sch, err := compiledSnapshotSchema()
	if err != nil {
		return quiz.State{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return quiz.State{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return quiz.State{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if f.SchemaVersion != SnapshotVersion {
		return quiz.State{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, f.SchemaVersion)
	}
	if !bank.Compatible(f.BankVersion) {
		return quiz.State{}, fmt.Errorf("%w: snapshot %s, bank %s", ErrSnapshotIncompatible, f.BankVersion, bank.Version())
	}

	s := f.State
	if s.Answers == nil {
		s.Answers = map[int]int{}
	}
	return s, nil
}

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(snapshotSchemaJSON, &def); err != nil {
			snapshotSchemaErr = fmt.Errorf("parse snapshot schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://quiz-snapshot.json"
		if err := c.AddResource(url, def); err != nil {
			snapshotSchemaErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		snapshotSchema, snapshotSchemaErr = c.Compile(url)
	})
	return snapshotSchema, snapshotSchemaErr
}
