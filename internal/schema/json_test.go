package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSchema_MarshalIndent_SortsBeforeEncoding(t *testing.T) {
	s := NewCommandSchema("tool", SourceHelpCommand)
	s.GlobalFlags = []FlagSchema{Boolean("", "--zeta"), Boolean("", "--alpha")}

	data, err := s.MarshalIndent()
	require.NoError(t, err)

	decoded, err := UnmarshalCommandSchema(data)
	require.NoError(t, err)
	assert.Equal(t, "--alpha", decoded.GlobalFlags[0].Long)
	assert.Equal(t, "--zeta", decoded.GlobalFlags[1].Long)
}

func TestCommandSchema_RoundTripsThroughJSON(t *testing.T) {
	s := NewCommandSchema("tool", SourceHelpCommand)
	s.Description = "A small example tool."
	s.GlobalFlags = []FlagSchema{WithValue("-o", "--output", Choice([]string{"json", "yaml"}))}
	s.Positional = []ArgSchema{{Name: "file", ValueType: ValueType{Tag: TagFile}, Required: true}}

	data, err := s.MarshalIndent()
	require.NoError(t, err)

	decoded, err := UnmarshalCommandSchema(data)
	require.NoError(t, err)
	assert.Equal(t, s.Description, decoded.Description)
	assert.Equal(t, TagChoice, decoded.GlobalFlags[0].ValueType.Tag)
	assert.Equal(t, []string{"json", "yaml"}, decoded.GlobalFlags[0].ValueType.Choices)
	assert.Equal(t, TagFile, decoded.Positional[0].ValueType.Tag)
}

func TestPackage_MarshalIndent_StampsHashBeforeEncoding(t *testing.T) {
	p := NewPackage("1.0.0", "2026-08-06T00:00:00Z")
	p.Schemas = []CommandSchema{NewCommandSchema("tool", SourceHelpCommand)}

	data, err := p.MarshalIndent()
	require.NoError(t, err)

	decoded, err := UnmarshalPackage(data)
	require.NoError(t, err)
	assert.NotEmpty(t, decoded.BundleHash)
	assert.Equal(t, p.BundleHash, decoded.BundleHash)
}

func TestExtractionReport_MarshalIndent_Succeeds(t *testing.T) {
	r := NewExtractionReport("tool")
	data, err := r.MarshalIndent()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command": "tool"`)
}

func TestReportBundle_MarshalIndent_SortsBeforeEncoding(t *testing.T) {
	b := NewReportBundle("1.0.0", "")
	b.Reports = []ExtractionReport{{Command: "zebra"}, {Command: "apple"}}

	data, err := b.MarshalIndent()
	require.NoError(t, err)
	assert.Contains(t, string(data), "apple")

	idxApple := indexOf(string(data), "apple")
	idxZebra := indexOf(string(data), "zebra")
	assert.Less(t, idxApple, idxZebra)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
