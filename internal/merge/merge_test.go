package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/schema"
	"github.com/command-schema/discover/internal/strategy"
)

func partial(dialect format.Format) *strategy.PartialSchema {
	return &strategy.PartialSchema{Dialect: dialect, RecognizedLineIndices: map[int]bool{}}
}

func TestMerge_DialectPriorityWinsDescription(t *testing.T) {
	gnu := partial(format.FormatGNU)
	gnu.Description = "from gnu"
	clap := partial(format.FormatClap)
	clap.Description = "from clap"

	priority := []string{string(format.FormatClap), string(format.FormatGNU)}
	result := Merge([]*strategy.PartialSchema{gnu, clap}, priority)

	assert.Equal(t, "from clap", result.Description)
}

func TestMerge_RicherFlagWins(t *testing.T) {
	sparse := partial(format.FormatGNU)
	sparse.GlobalFlags = []schema.FlagSchema{{Long: "--verbose", ValueType: schema.ValueType{Tag: schema.TagAny}}}

	rich := partial(format.FormatClap)
	rich.GlobalFlags = []schema.FlagSchema{{Long: "--verbose", Short: "-v", Description: "be loud", ValueType: schema.ValueType{Tag: schema.TagBool}}}

	priority := []string{string(format.FormatClap), string(format.FormatGNU)}
	result := Merge([]*strategy.PartialSchema{sparse, rich}, priority)

	assert.Len(t, result.GlobalFlags, 1)
	f := result.GlobalFlags[0]
	assert.Equal(t, "-v", f.Short)
	assert.Equal(t, "be loud", f.Description)
	assert.Equal(t, schema.TagBool, f.ValueType.Tag)
}

func TestMerge_DedupesFlagsByCanonicalForm(t *testing.T) {
	a := partial(format.FormatGNU)
	a.GlobalFlags = []schema.FlagSchema{{Long: "--help", Short: "-h"}}
	b := partial(format.FormatGNU)
	b.GlobalFlags = []schema.FlagSchema{{Long: "--help"}}

	result := Merge([]*strategy.PartialSchema{a, b}, []string{string(format.FormatGNU)})
	assert.Len(t, result.GlobalFlags, 1)
}

func TestMerge_SubcommandsMergeByAlias(t *testing.T) {
	a := partial(format.FormatGNU)
	a.Subcommands = []schema.SubcommandSchema{{Name: "install", Aliases: []string{"i"}, Description: "install a package"}}
	b := partial(format.FormatGNU)
	b.Subcommands = []schema.SubcommandSchema{{Name: "i", Description: "install shorthand"}}

	result := Merge([]*strategy.PartialSchema{a, b}, []string{string(format.FormatGNU)})
	assert.Len(t, result.Subcommands, 1)
	assert.Equal(t, "install a package", result.Subcommands[0].Description)
}

func TestMerge_ContributorsOnlyIncludesDialectsThatContributed(t *testing.T) {
	empty := partial(format.FormatBSD)
	nonEmpty := partial(format.FormatGNU)
	nonEmpty.GlobalFlags = []schema.FlagSchema{{Long: "--help"}}

	result := Merge([]*strategy.PartialSchema{empty, nonEmpty}, []string{string(format.FormatGNU), string(format.FormatBSD)})
	assert.Contains(t, result.Contributors, string(format.FormatGNU))
	assert.NotContains(t, result.Contributors, string(format.FormatBSD))
}

func TestMerge_RecognizedLinesUnionAcrossPartials(t *testing.T) {
	a := partial(format.FormatGNU)
	a.RecognizedLineIndices = map[int]bool{1: true, 2: true}
	b := partial(format.FormatClap)
	b.RecognizedLineIndices = map[int]bool{2: true, 3: true}

	result := Merge([]*strategy.PartialSchema{a, b}, []string{string(format.FormatGNU), string(format.FormatClap)})
	assert.True(t, result.Recognized[1])
	assert.True(t, result.Recognized[2])
	assert.True(t, result.Recognized[3])
}

func TestMerge_ConsolidatesSplitShortAndLongEntries(t *testing.T) {
	longOnly := partial(format.FormatGNU)
	longOnly.GlobalFlags = []schema.FlagSchema{{Long: "--no-pager"}}
	shortOnly := partial(format.FormatGNU)
	shortOnly.GlobalFlags = []schema.FlagSchema{{Short: "-P"}}
	both := partial(format.FormatGNU)
	both.GlobalFlags = []schema.FlagSchema{{Short: "-P", Long: "--no-pager", Description: "do not pipe output into a pager"}}

	result := Merge([]*strategy.PartialSchema{longOnly, shortOnly, both}, []string{string(format.FormatGNU)})

	require.Len(t, result.GlobalFlags, 1)
	f := result.GlobalFlags[0]
	assert.Equal(t, "--no-pager", f.Long)
	assert.Equal(t, "-P", f.Short)
	assert.Equal(t, "do not pipe output into a pager", f.Description)
}

func TestUnionPositional_LongerListWinsWithDescriptionsBackfilled(t *testing.T) {
	short := []schema.ArgSchema{
		{Name: "src", Description: "source path"},
	}
	long := []schema.ArgSchema{
		{Name: "source"},
		{Name: "dest", Description: "destination path"},
	}

	out := UnionPositional(long, short)

	assert.Len(t, out, 2)
	assert.Equal(t, "source", out[0].Name)
	assert.Equal(t, "source path", out[0].Description, "missing description backfilled by index from the shorter list")
	assert.Equal(t, "destination path", out[1].Description)
}

func TestUnionPositional_OrderOfArgumentsDoesNotMatter(t *testing.T) {
	short := []schema.ArgSchema{{Name: "src", Description: "source path"}}
	long := []schema.ArgSchema{{Name: "source"}, {Name: "dest"}}

	out := UnionPositional(short, long)

	assert.Len(t, out, 2)
	assert.Equal(t, "source path", out[0].Description)
}
