package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagSchema_CanonicalName(t *testing.T) {
	assert.Equal(t, "--verbose", FlagSchema{Long: "--verbose", Short: "-v"}.CanonicalName())
	assert.Equal(t, "-v", FlagSchema{Short: "-v"}.CanonicalName())
	assert.Equal(t, "", FlagSchema{}.CanonicalName())
}

func TestFlagSchema_Matches(t *testing.T) {
	f := FlagSchema{Long: "--verbose", Short: "-v"}
	assert.True(t, f.Matches("--verbose"))
	assert.True(t, f.Matches("-v"))
	assert.False(t, f.Matches("--quiet"))
}

func TestCommandSchema_Sort_OrdersFlagsAndSubcommands(t *testing.T) {
	s := NewCommandSchema("tool", SourceHelpCommand)
	s.GlobalFlags = []FlagSchema{
		{Long: "--zeta"},
		{Long: "--alpha"},
		{Short: "-b"},
	}
	s.Subcommands = []SubcommandSchema{
		{Name: "zeta"},
		{Name: "alpha"},
	}
	s.Sort()

	assert.Equal(t, "--alpha", s.GlobalFlags[0].CanonicalName())
	assert.Equal(t, "alpha", s.Subcommands[0].Name)
}

func TestCommandSchema_FindGlobalFlag(t *testing.T) {
	s := NewCommandSchema("tool", SourceHelpCommand)
	s.GlobalFlags = []FlagSchema{{Long: "--verbose", Short: "-v"}}

	found := s.FindGlobalFlag("-v")
	assert.NotNil(t, found)
	assert.Equal(t, "--verbose", found.Long)

	assert.Nil(t, s.FindGlobalFlag("--missing"))
}

func TestSubcommandSchema_Matches(t *testing.T) {
	s := SubcommandSchema{Name: "install", Aliases: []string{"i", "add"}}
	assert.True(t, s.Matches("install"))
	assert.True(t, s.Matches("i"))
	assert.True(t, s.Matches("add"))
	assert.False(t, s.Matches("remove"))
}

func TestFlagSchema_BooleanAndWithValue(t *testing.T) {
	b := Boolean("-v", "--verbose")
	assert.False(t, b.TakesValue)
	assert.Equal(t, TagBool, b.ValueType.Tag)

	v := WithValue("-o", "--output", ValueType{Tag: TagFile})
	assert.True(t, v.TakesValue)
	assert.Equal(t, TagFile, v.ValueType.Tag)
}
