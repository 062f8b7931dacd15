// Package merge implements the Schema Merger stage (§4.4): combining
// partial schemas from every strategy that ran under a dialect-priority
// ordering, deduplicating flags/subcommands and resolving conflicts.
package merge

import (
	"github.com/command-schema/discover/internal/schema"
	"github.com/command-schema/discover/internal/strategy"
)

// Result is the merger's output: the combined schema fields plus the
// union of recognized line indices (drives coverage in §4.7) and the
// list of strategies that contributed at least one flag, subcommand, or
// recognized line.
type Result struct {
	Description  string
	GlobalFlags  []schema.FlagSchema
	Subcommands  []schema.SubcommandSchema
	Positional   []schema.ArgSchema
	Recognized   map[int]bool
	Contributors []string
	Warnings     []string
}

// Merge combines partials in dialect-priority order (earlier entries in
// priority win ties). partials need not be ordered; Merge reorders them
// internally.
func Merge(partials []*strategy.PartialSchema, priority []string) *Result {
	ordered := orderByPriority(partials, priority)

	result := &Result{
		Recognized: make(map[int]bool),
	}

	var longCanon, shortCanon = make(map[string]int), make(map[string]int)
	var subCanon = make(map[string]int)

	for _, p := range ordered {
		contributed := false

		if result.Description == "" && p.Description != "" {
			result.Description = p.Description
		}

		for _, flag := range p.GlobalFlags {
			mergeFlag(result, flag, longCanon, shortCanon)
			contributed = true
		}

		for _, sub := range p.Subcommands {
			mergeSubcommand(result, sub, subCanon)
			contributed = true
		}

		if len(result.Positional) == 0 && len(p.Positional) > 0 {
			result.Positional = p.Positional
		}

		for idx := range p.RecognizedLineIndices {
			result.Recognized[idx] = true
			contributed = true
		}

		result.Warnings = append(result.Warnings, p.Warnings...)

		if contributed {
			result.Contributors = append(result.Contributors, string(p.Dialect))
		}
	}

	return result
}

func orderByPriority(partials []*strategy.PartialSchema, priority []string) []*strategy.PartialSchema {
	rank := make(map[string]int, len(priority))
	for i, d := range priority {
		rank[d] = i
	}
	ordered := make([]*strategy.PartialSchema, len(partials))
	copy(ordered, partials)

	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rank[string(ordered[j].Dialect)] < rank[string(ordered[j-1].Dialect)]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

// mergeFlag implements "richer wins" flag deduplication and split
// short/long consolidation (§4.4). A flag can match an existing entry
// by long form, by short form, by both at once to the same entry, or —
// the tricky case — by long form to one entry and short form to a
// *different* entry, when a prior pass saw "--no-pager" and "-P" as
// two separate partials before a third partial declared them as one
// flag. That case must consolidate the two entries into one and splice
// the loser out of result.GlobalFlags, reindexing the canon maps.
func mergeFlag(result *Result, flag schema.FlagSchema, longCanon, shortCanon map[string]int) {
	longIdx, hasLong := -1, false
	if flag.Long != "" {
		if idx, ok := longCanon[flag.Long]; ok {
			longIdx, hasLong = idx, true
		}
	}
	shortIdx, hasShort := -1, false
	if flag.Short != "" {
		if idx, ok := shortCanon[flag.Short]; ok {
			shortIdx, hasShort = idx, true
		}
	}

	if hasLong && hasShort && longIdx != shortIdx {
		keep, lose := longIdx, shortIdx
		if keep > lose {
			keep, lose = lose, keep
		}
		merged := richerFlag(richerFlag(result.GlobalFlags[keep], result.GlobalFlags[lose]), flag)
		result.GlobalFlags[keep] = merged
		result.GlobalFlags = append(result.GlobalFlags[:lose], result.GlobalFlags[lose+1:]...)
		spliceCanon(longCanon, lose)
		spliceCanon(shortCanon, lose)
		if merged.Long != "" {
			longCanon[merged.Long] = keep
		}
		if merged.Short != "" {
			shortCanon[merged.Short] = keep
		}
		return
	}

	canonIdx := -1
	if hasLong {
		canonIdx = longIdx
	} else if hasShort {
		canonIdx = shortIdx
	}

	if canonIdx == -1 {
		idx := len(result.GlobalFlags)
		result.GlobalFlags = append(result.GlobalFlags, flag)
		if flag.Long != "" {
			longCanon[flag.Long] = idx
		}
		if flag.Short != "" {
			shortCanon[flag.Short] = idx
		}
		return
	}

	existing := result.GlobalFlags[canonIdx]
	merged := richerFlag(existing, flag)
	result.GlobalFlags[canonIdx] = merged
	if merged.Long != "" {
		longCanon[merged.Long] = canonIdx
	}
	if merged.Short != "" {
		shortCanon[merged.Short] = canonIdx
	}
}

// spliceCanon removes every reference to removedIdx from a canon map
// (it no longer exists after the slice splice that caused this call)
// and shifts every index past it down by one to match the shrunk slice.
func spliceCanon(canon map[string]int, removedIdx int) {
	for k, v := range canon {
		switch {
		case v == removedIdx:
			delete(canon, k)
		case v > removedIdx:
			canon[k] = v - 1
		}
	}
}

// richerFlag picks the richer of two flags believed to be the same
// underlying flag, consolidating any form one has that the other lacks.
func richerFlag(a, b schema.FlagSchema) schema.FlagSchema {
	winner := a
	if winner.Description == "" && b.Description != "" {
		winner.Description = b.Description
	}
	if winner.ValueType.Tag == "Any" && b.ValueType.Tag != "Any" {
		winner.ValueType = b.ValueType
	}
	if winner.Short == "" && b.Short != "" {
		winner.Short = b.Short
	}
	if winner.Long == "" && b.Long != "" {
		winner.Long = b.Long
	}
	if !winner.TakesValue && b.TakesValue {
		winner.TakesValue = b.TakesValue
	}
	winner.Multiple = winner.Multiple || b.Multiple
	winner.ConflictsWith = unionStrings(winner.ConflictsWith, b.ConflictsWith)
	winner.Requires = unionStrings(winner.Requires, b.Requires)
	return winner
}

func mergeSubcommand(result *Result, sub schema.SubcommandSchema, subCanon map[string]int) {
	idx, ok := findSubcommandIndex(result.Subcommands, sub, subCanon)
	if !ok {
		idx = len(result.Subcommands)
		result.Subcommands = append(result.Subcommands, sub)
		registerSubcommandNames(subCanon, sub, idx)
		return
	}

	existing := result.Subcommands[idx]
	existing.Description = firstNonEmpty(existing.Description, sub.Description)
	existing.Aliases = unionStrings(existing.Aliases, sub.Aliases)

	longCanon, shortCanon := make(map[string]int), make(map[string]int)
	for i, f := range existing.Flags {
		if f.Long != "" {
			longCanon[f.Long] = i
		}
		if f.Short != "" {
			shortCanon[f.Short] = i
		}
	}
	tmp := &Result{GlobalFlags: existing.Flags}
	for _, f := range sub.Flags {
		mergeFlag(tmp, f, longCanon, shortCanon)
	}
	existing.Flags = tmp.GlobalFlags

	if len(existing.Positional) == 0 && len(sub.Positional) > 0 {
		existing.Positional = sub.Positional
	}

	nestedCanon := make(map[string]int)
	for i, n := range existing.Subcommands {
		nestedCanon[n.Name] = i
		for _, a := range n.Aliases {
			nestedCanon[a] = i
		}
	}
	nestedResult := &Result{Subcommands: existing.Subcommands}
	for _, nested := range sub.Subcommands {
		mergeSubcommand(nestedResult, nested, nestedCanon)
	}
	existing.Subcommands = nestedResult.Subcommands

	result.Subcommands[idx] = existing
	registerSubcommandNames(subCanon, existing, idx)
}

func findSubcommandIndex(subs []schema.SubcommandSchema, sub schema.SubcommandSchema, subCanon map[string]int) (int, bool) {
	if idx, ok := subCanon[sub.Name]; ok {
		return idx, true
	}
	for _, alias := range sub.Aliases {
		if idx, ok := subCanon[alias]; ok {
			return idx, true
		}
	}
	return 0, false
}

func registerSubcommandNames(subCanon map[string]int, sub schema.SubcommandSchema, idx int) {
	subCanon[sub.Name] = idx
	for _, a := range sub.Aliases {
		subCanon[a] = idx
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// UnionPositional implements the Union positional-merge strategy of
// §4.4: used not within a single Merge call but by the batch
// orchestrator when it has two already-merged schemas for the same
// command from successive probe sources (a man page and a --help
// invocation). The longer list wins; any entry missing a description
// is backfilled by index from the shorter list.
func UnionPositional(a, b []schema.ArgSchema) []schema.ArgSchema {
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	out := make([]schema.ArgSchema, len(longer))
	copy(out, longer)
	for i := range out {
		if out[i].Description == "" && i < len(shorter) && shorter[i].Description != "" {
			out[i].Description = shorter[i].Description
		}
	}
	return out
}
