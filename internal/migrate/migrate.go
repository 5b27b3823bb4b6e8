// Package migrate normalizes loosely-typed running-order documents of any
// age into the canonical document.Document.
//
// Migration never fails: missing fields take documented defaults, values of
// the wrong type are coerced, and legacy field names are read when the
// canonical name is absent. One-time upgrades are gated on the document's
// dataVersion and stamp the new version when they run, so migrating a
// migrated document is a no-op.
package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/reference"
)

// Step is a one-time upgrade that runs while the document version is below
// Version and stamps Version when done.
type Step struct {
	Version     int
	Description string
	Apply       func(doc *document.Document)
}

// Report describes what a migration did.
type Report struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Applied     []string `json:"applied"`
}

// Migrator holds the upgrade chain and the reference data it relies on. It
// is immutable and safe for concurrent use.
type Migrator struct {
	steps []Step
}

// New builds a migrator whose reference-data upgrade uses set. A nil set
// selects the bundled reference data.
func New(set *reference.Set) *Migrator {
	if set == nil {
		set = reference.Default()
	}
	return &Migrator{steps: []Step{
		{
			Version:     2,
			Description: "replace stadium and team lists with canonical bilingual records",
			Apply:       canonicalReferences(set),
		},
	}}
}

// Steps returns the upgrade chain in application order.
func (m *Migrator) Steps() []Step {
	return append([]Step(nil), m.steps...)
}

// Migrate returns the canonical form of raw. raw is not modified.
func (m *Migrator) Migrate(raw map[string]any) document.Document {
	doc, _ := m.MigrateWithReport(raw)
	return doc
}

// MigrateWithReport is Migrate plus a description of the upgrades applied.
func (m *Migrator) MigrateWithReport(raw map[string]any) (document.Document, Report) {
	version := dataVersion(raw)
	report := Report{FromVersion: version, Applied: []string{}}

	doc := shapeDocument(raw)
	for _, step := range m.steps {
		if version >= step.Version {
			continue
		}
		step.Apply(&doc)
		version = step.Version
		report.Applied = append(report.Applied, step.Description)
	}

	doc.DataVersion = version
	report.ToVersion = version
	return doc, report
}

// Canonical re-runs the migrator over an in-memory document, re-deriving
// dependent fields after direct edits.
func (m *Migrator) Canonical(doc document.Document) document.Document {
	return m.Migrate(ToMap(doc))
}

// MigrateJSON decodes data and migrates it. Input that is valid JSON but not
// an object migrates as an empty document; only malformed JSON is an error.
func (m *Migrator) MigrateJSON(data []byte) (document.Document, Report, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return document.Document{}, Report{}, err
	}
	doc, report := m.MigrateWithReport(raw)
	return doc, report, nil
}

var defaultMigrator = New(nil)

// Migrate migrates raw with the bundled reference data.
func Migrate(raw map[string]any) document.Document {
	return defaultMigrator.Migrate(raw)
}

// MigrateJSON migrates encoded JSON with the bundled reference data.
func MigrateJSON(data []byte) (document.Document, error) {
	doc, _, err := defaultMigrator.MigrateJSON(data)
	return doc, err
}

// ToMap converts a canonical document back into its loosely-typed JSON form.
func ToMap(doc document.Document) map[string]any {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return map[string]any{}
	}
	raw, err := decodeObject(encoded)
	if err != nil {
		return map[string]any{}
	}
	return raw
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("migrate: decode document: %w", err)
	}
	if obj, ok := value.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{}, nil
}

// dataVersion reads the stamped version, defaulting to 1 when absent or not
// a positive integer.
func dataVersion(raw map[string]any) int {
	if v, ok := integer(raw["dataVersion"]); ok && v >= 1 {
		return v
	}
	return 1
}
