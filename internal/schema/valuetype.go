package schema

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Tag enumerates the ValueType variants.
type Tag string

const (
	TagBool      Tag = "Bool"
	TagString    Tag = "String"
	TagNumber    Tag = "Number"
	TagFile      Tag = "File"
	TagDirectory Tag = "Directory"
	TagURL       Tag = "Url"
	TagBranch    Tag = "Branch"
	TagRemote    Tag = "Remote"
	TagChoice    Tag = "Choice"
	TagAny       Tag = "Any"
)

// ValueType is a tagged union over the flag/argument value types in §3.
// Every variant except Choice carries no payload; Choice carries an
// ordered, deduplicated list of at least two alternatives.
type ValueType struct {
	Tag     Tag
	Choices []string
}

// Choice builds a ValueType with the Choice variant.
func Choice(alternatives []string) ValueType {
	return ValueType{Tag: TagChoice, Choices: alternatives}
}

// MarshalJSON renders plain variants as a bare string tag and Choice as
// {"Choice": [...]}, matching the Rust serde tagged-enum representation
// this schema was distilled from.
func (v ValueType) MarshalJSON() ([]byte, error) {
	if v.Tag == TagChoice {
		return gojson.Marshal(map[string][]string{"Choice": v.Choices})
	}
	return gojson.Marshal(string(v.Tag))
}

// UnmarshalJSON accepts either a bare string tag or {"Choice": [...]}.
func (v *ValueType) UnmarshalJSON(data []byte) error {
	var asString string
	if err := gojson.Unmarshal(data, &asString); err == nil {
		v.Tag = Tag(asString)
		v.Choices = nil
		return nil
	}

	var asObject map[string][]string
	if err := gojson.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("value type: not a string or {\"Choice\": [...]}: %w", err)
	}
	choices, ok := asObject["Choice"]
	if !ok {
		return fmt.Errorf("value type: object variant must be \"Choice\"")
	}
	v.Tag = TagChoice
	v.Choices = choices
	return nil
}
