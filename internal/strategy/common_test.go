package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/command-schema/discover/internal/lineclass"
	"github.com/command-schema/discover/internal/schema"
)

func TestParseFlagLine_ShortAndLongWithDescription(t *testing.T) {
	p := parseFlagLine("-v, --verbose    Enable verbose output")
	assert.True(t, p.ok)
	assert.Equal(t, "-v", p.short)
	assert.Equal(t, "--verbose", p.long)
	assert.Equal(t, "Enable verbose output", p.description)
}

func TestParseFlagLine_LongWithEqualsMetavar(t *testing.T) {
	p := parseFlagLine("--output=FILE    Write output to FILE")
	assert.True(t, p.ok)
	assert.Equal(t, "--output", p.long)
	assert.Equal(t, "FILE", p.metavar)
}

func TestParseFlagLine_AngleMetavar(t *testing.T) {
	p := parseFlagLine("--format <json|yaml>    Output format")
	assert.True(t, p.ok)
	assert.Equal(t, "<json|yaml>", p.metavar)
}

func TestParseFlagLine_ShortOnly(t *testing.T) {
	p := parseFlagLine("-h")
	assert.True(t, p.ok)
	assert.Equal(t, "-h", p.short)
	assert.Equal(t, "", p.long)
}

func TestParseFlagLine_NotAFlag(t *testing.T) {
	p := parseFlagLine("just some prose")
	assert.False(t, p.ok)
}

func TestBuildFlagSchema_ChoiceFromMetavar(t *testing.T) {
	p := parseFlagLine("--format <json|yaml>    Output format")
	flag := buildFlagSchema(p)
	assert.Equal(t, schema.TagChoice, flag.ValueType.Tag)
	assert.Equal(t, []string{"json", "yaml"}, flag.ValueType.Choices)
}

func TestBuildFlagSchema_ConflictsAndRequires(t *testing.T) {
	p := parseFlagLine("--quiet    Suppress output, conflicts with --verbose")
	flag := buildFlagSchema(p)
	assert.Equal(t, []string{"--verbose"}, flag.ConflictsWith)

	p2 := parseFlagLine("--fix    Apply fixes, requires --dry-run")
	flag2 := buildFlagSchema(p2)
	assert.Equal(t, []string{"--dry-run"}, flag2.Requires)
}

func TestParseSubcommandLine_Simple(t *testing.T) {
	name, aliases, desc, ok := parseSubcommandLine("build    Build the project")
	assert.True(t, ok)
	assert.Equal(t, "build", name)
	assert.Empty(t, aliases)
	assert.Equal(t, "Build the project", desc)
}

func TestParseSubcommandLine_ParentheticalAlias(t *testing.T) {
	name, aliases, desc, ok := parseSubcommandLine("install (i, add)    Install a package")
	assert.True(t, ok)
	assert.Equal(t, "install", name)
	assert.Equal(t, []string{"i", "add"}, aliases)
	assert.Equal(t, "Install a package", desc)
}

func TestParseSubcommandLine_PipeAlias(t *testing.T) {
	name, aliases, _, ok := parseSubcommandLine("rm|remove    Remove a package")
	assert.True(t, ok)
	assert.Equal(t, "rm", name)
	assert.Equal(t, []string{"remove"}, aliases)
}

func TestJoinContinuations_StopsAtNonContinuation(t *testing.T) {
	lines := []lineclass.Line{
		{Kind: lineclass.KindFlagLine, Stripped: "--prev"},
		{Kind: lineclass.KindContinuation, Stripped: "more detail"},
		{Kind: lineclass.KindFlagLine, Stripped: "--next"},
	}
	recognized := map[int]bool{}
	desc := joinContinuations(lines, 0, "first part", recognized)
	assert.Equal(t, "first part more detail", desc)
	assert.True(t, recognized[1])
	assert.False(t, recognized[2])
}
