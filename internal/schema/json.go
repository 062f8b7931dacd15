package schema

import gojson "github.com/goccy/go-json"

// MarshalIndent serializes a CommandSchema with stable two-space
// indentation, after sorting it per §5's ordering guarantees.
func (c CommandSchema) MarshalIndent() ([]byte, error) {
	c.Sort()
	return gojson.MarshalIndent(c, "", "  ")
}

// MarshalIndent serializes an ExtractionReport with stable indentation.
func (r ExtractionReport) MarshalIndent() ([]byte, error) {
	return gojson.MarshalIndent(r, "", "  ")
}

// MarshalIndent serializes a ReportBundle with stable indentation,
// sorting it first.
func (b ReportBundle) MarshalIndent() ([]byte, error) {
	b.Sort()
	return gojson.MarshalIndent(b, "", "  ")
}

// MarshalIndent serializes a Package with stable indentation, sorting
// and stamping its bundle hash first.
func (p *Package) MarshalIndent() ([]byte, error) {
	if err := p.StampBundleHash(); err != nil {
		return nil, err
	}
	return gojson.MarshalIndent(p, "", "  ")
}

// UnmarshalCommandSchema parses a CommandSchema from JSON bytes.
func UnmarshalCommandSchema(data []byte) (CommandSchema, error) {
	var s CommandSchema
	err := gojson.Unmarshal(data, &s)
	return s, err
}

// UnmarshalPackage parses a Package from JSON bytes.
func UnmarshalPackage(data []byte) (Package, error) {
	var p Package
	err := gojson.Unmarshal(data, &p)
	return p, err
}
