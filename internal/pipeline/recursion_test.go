package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/command-schema/discover/internal/probe"
	"github.com/command-schema/discover/internal/quality"
	"github.com/command-schema/discover/internal/schema"
)

func TestEnrichSubcommands_EmptyInputIsNoop(t *testing.T) {
	e := newTestExtractor()
	recursor := probe.NewRecursor(probe.Options{})
	out := e.enrichSubcommands(context.Background(), "anything", nil, nil, recursor)
	assert.Nil(t, out)
}

func TestEnrichSubcommands_UnresolvableCommandLeavesSubcommandsUnchanged(t *testing.T) {
	e := newTestExtractor()
	recursor := probe.NewRecursor(probe.Options{Timeout: time.Second})
	subs := []schema.SubcommandSchema{schema.NewSubcommandSchema("foo")}

	out := e.enrichSubcommands(context.Background(), "definitely-not-a-real-command-zzz", subs, nil, recursor)

	require.Len(t, out, 1)
	assert.Equal(t, "foo", out[0].Name)
	assert.Empty(t, out[0].Flags)
}

func TestExtractLive_RecursionDisabledLeavesSubcommandsUnprobed(t *testing.T) {
	e := New(Options{
		Policy:         quality.DefaultPolicy(),
		ProbeTimeout:   2 * time.Second,
		AllowRecursion: false,
	})

	s, report := e.ExtractLive(context.Background(), "git")
	require.NotNil(t, report)
	if s == nil || !report.Success || len(s.Subcommands) == 0 {
		t.Skip("git not available or didn't yield subcommands in this environment")
	}

	for _, sub := range s.Subcommands {
		assert.Empty(t, sub.Flags, "subcommand flags should stay empty without --allow-recursion")
	}
}

func TestExtractLive_UnionProbesCombinesManAndHelpPositionalArgs(t *testing.T) {
	plain := New(Options{
		Policy:       quality.DefaultPolicy(),
		ProbeTimeout: 2 * time.Second,
	})
	union := New(Options{
		Policy:                quality.DefaultPolicy(),
		ProbeTimeout:          2 * time.Second,
		UnionSuccessiveProbes: true,
	})

	baseline, baseReport := plain.ExtractLive(context.Background(), "git")
	unioned, unionReport := union.ExtractLive(context.Background(), "git")

	if baseline == nil || !baseReport.Success || unioned == nil || !unionReport.Success {
		t.Skip("git not available in this environment")
	}

	assert.True(t, len(unioned.Positional) >= len(baseline.Positional),
		"union-probed positional list should never be shorter than the single-source result")
}

func TestExtractLive_RecursionEnabledProbesAtLeastOneSubcommand(t *testing.T) {
	e := New(Options{
		Policy:         quality.DefaultPolicy(),
		ProbeTimeout:   2 * time.Second,
		AllowRecursion: true,
	})

	s, report := e.ExtractLive(context.Background(), "git")
	require.NotNil(t, report)
	if s == nil || !report.Success || len(s.Subcommands) == 0 {
		t.Skip("git not available or didn't yield subcommands in this environment")
	}

	enriched := false
	for _, sub := range s.Subcommands {
		if len(sub.Flags) > 0 || len(sub.Positional) > 0 {
			enriched = true
			break
		}
	}
	assert.True(t, enriched, "expected at least one subcommand to be enriched by recursive probing")
}
