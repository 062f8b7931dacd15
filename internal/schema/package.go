package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Package is a serializable bundle of command schemas used for curation
// and distribution, grouping multiple CommandSchema values with
// package-level version metadata.
type Package struct {
	SchemaVersion string          `json:"schema_version,omitempty"`
	Version       string          `json:"version"`
	Name          string          `json:"name,omitempty"`
	Description   string          `json:"description,omitempty"`
	GeneratedAt   string          `json:"generated_at"`
	BundleHash    string          `json:"bundle_hash,omitempty"`
	Schemas       []CommandSchema `json:"schemas"`
}

// NewPackage returns a Package with required fields populated.
func NewPackage(version, generatedAt string) *Package {
	return &Package{
		SchemaVersion: SchemaContractVersion,
		Version:       version,
		GeneratedAt:   generatedAt,
		Schemas:       []CommandSchema{},
	}
}

// SchemaCount returns the number of schemas in this package.
func (p *Package) SchemaCount() int {
	return len(p.Schemas)
}

// Sort orders schemas by command name and each schema's own contents.
// It leaves BundleHash untouched; StampBundleHash sorts and then stamps it.
func (p *Package) Sort() {
	sort.SliceStable(p.Schemas, func(i, j int) bool {
		return p.Schemas[i].Command < p.Schemas[j].Command
	})
	for i := range p.Schemas {
		p.Schemas[i].Sort()
	}
}

// StampBundleHash computes and sets BundleHash over the sorted schema
// list, independent of GeneratedAt so repeated bundling of identical
// schemas is byte-stable.
func (p *Package) StampBundleHash() error {
	p.Sort()
	payload, err := gojson.Marshal(p.Schemas)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(payload)
	p.BundleHash = hex.EncodeToString(sum[:])
	return nil
}
