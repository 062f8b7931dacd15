// Package pipeline orchestrates the full extraction pipeline for a
// single command and, in batch mode, fans extractions out across a
// worker pool (§5).
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/command-schema/discover/internal/cache"
	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
	"github.com/command-schema/discover/internal/merge"
	"github.com/command-schema/discover/internal/probe"
	"github.com/command-schema/discover/internal/quality"
	"github.com/command-schema/discover/internal/schema"
	"github.com/command-schema/discover/internal/strategy"
	"github.com/command-schema/discover/internal/suggest"
)

// Options configures a single extraction.
type Options struct {
	Policy                quality.Policy
	ProbeTimeout          time.Duration
	Permission            probe.PermissionPredicate
	Cache                 *cache.Cache
	CacheEnabled          bool
	AllowRecursion        bool
	UnionSuccessiveProbes bool
	Jobs                  int
	Logger                *zap.Logger
}

// Extractor runs the pipeline for one command at a time. It is
// stateless and safe for concurrent use by multiple workers, provided
// each call constructs its own Options.Cache usage goes through the
// shared *cache.Cache's own internal locking.
type Extractor struct {
	Options Options
}

// New returns an Extractor with defaults filled in.
func New(opts Options) *Extractor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Extractor{Options: opts}
}

// ExtractText runs the classifier through quality-gate stages over
// pre-supplied help text, without any probing. This backs the
// parse-stdin/parse-file CLI operations.
func (e *Extractor) ExtractText(command, text string, source schema.Source) (*schema.CommandSchema, *schema.ExtractionReport) {
	return e.runPipeline(command, text, source, nil)
}

// ExtractLive probes command for help text, then runs the same
// pipeline stages, consulting and populating the fingerprint cache
// when enabled.
func (e *Extractor) ExtractLive(ctx context.Context, command string) (*schema.CommandSchema, *schema.ExtractionReport) {
	logger := e.Options.Logger

	if e.Options.CacheEnabled && e.Options.Cache != nil {
		if executablePath, err := resolveForCache(command); err == nil {
			key, err := cache.BuildKey(command, executablePath, "help", "",
				e.Options.Policy.MinConfidence, e.Options.Policy.MinCoverage, e.Options.Policy.AllowLowQuality)
			if err == nil {
				if entry, hit, _ := e.Options.Cache.Get(key); hit {
					logger.Debug("cache hit", zap.String("command", command))
					s, r := entry.Schema, entry.Report
					return &s, &r
				}
			}
		}
	}

	var s *schema.CommandSchema
	var report *schema.ExtractionReport
	var executablePath string

	if e.Options.UnionSuccessiveProbes {
		s, report, executablePath = e.extractViaUnion(ctx, command, logger)
		if s == nil {
			return nil, report
		}
	} else {
		outcome := probe.Probe(ctx, command, probe.Options{
			Timeout:    e.Options.ProbeTimeout,
			Permission: e.Options.Permission,
			Logger:     logger,
		})

		if !outcome.Accepted {
			report := schema.NewExtractionReport(command)
			report.Success = false
			report.FailureCode = outcome.FailureCode
			report.FailureDetail = outcome.FailureDetail
			report.ProbeAttempts = outcome.Attempts
			return nil, report
		}

		s, report = e.runPipeline(command, outcome.Text, schema.SourceHelpCommand, outcome.Attempts)
		executablePath = outcome.ExecutablePath
	}

	if s != nil {
		s.ResolvedExecutableBase = baseName(executablePath)
	}

	if s != nil && e.Options.AllowRecursion && len(s.Subcommands) > 0 {
		recursor := probe.NewRecursor(probe.Options{
			Timeout:    e.Options.ProbeTimeout,
			Permission: e.Options.Permission,
			Logger:     logger,
		})
		s.Subcommands = e.enrichSubcommands(ctx, command, s.Subcommands, nil, recursor)
	}

	if e.Options.CacheEnabled && e.Options.Cache != nil && s != nil {
		if key, err := cache.BuildKey(command, executablePath, "help", s.Version,
			e.Options.Policy.MinConfidence, e.Options.Policy.MinCoverage, e.Options.Policy.AllowLowQuality); err == nil {
			entry := cache.Entry{
				Key:             key,
				Schema:          *s,
				Report:          *report,
				DetectedVersion: s.Version,
				CachedAt:        time.Now().UTC().Format(time.RFC3339),
			}
			if err := e.Options.Cache.Put(entry); err != nil {
				logger.Warn("cache write failed", zap.Error(err))
			}
		}
	}

	return s, report
}

// runPipeline is the shared core: classify → detect → strategies →
// merge → value-type classify (done inside strategies) → quality gate.
func (e *Extractor) runPipeline(command, text string, source schema.Source, probeAttempts []schema.ProbeAttemptReport) (*schema.CommandSchema, *schema.ExtractionReport) {
	report := schema.NewExtractionReport(command)
	report.ProbeAttempts = probeAttempts

	clean, replaced := sanitizeUTF8(text)
	if replaced {
		report.Warnings = append(report.Warnings, "invalid UTF-8 replaced with U+FFFD")
	}

	if len(trimmedNonEmpty(clean)) == 0 {
		code := schema.FailureNotHelpOutput
		report.FailureCode = &code
		report.Success = false
		return nil, report
	}

	lines := lineclass.Classify(clean)
	scores := format.Detect(lines)

	registry := strategy.Registry()
	var partials []*strategy.PartialSchema
	for _, strat := range registry {
		partials = append(partials, strat.Parse(lines))
	}

	priority := make([]string, len(strategy.DialectPriority))
	for i, d := range strategy.DialectPriority {
		priority[i] = string(d)
	}
	merged := merge.Merge(partials, priority)

	if merged.Description == "" {
		merged.Description = leadingProseDescription(lines)
	}

	hasUsage := hasUsageLine(lines)
	if len(merged.GlobalFlags) == 0 && len(merged.Subcommands) == 0 && !hasUsage {
		code := schema.FailureParseFailed
		report.FailureCode = &code
		report.Success = false
		report.Warnings = append(report.Warnings, merged.Warnings...)
		return nil, report
	}

	relevant, recognized := countCoverage(lines, merged.Recognized)
	report.RelevantLines = relevant
	report.RecognizedLines = recognized
	report.UnresolvedLines = unresolvedIndices(lines, merged.Recognized)

	selectedFormat := ""
	formatScore := 0.0
	manRawContributed := false
	for _, s := range scores {
		report.FormatScores = append(report.FormatScores, schema.FormatScoreReport{Format: string(s.Format), Score: s.Value})
	}
	if len(scores) > 0 {
		selectedFormat = string(scores[0].Format)
		formatScore = scores[0].Value
	}
	for _, c := range merged.Contributors {
		if c == string(format.FormatManRaw) {
			manRawContributed = true
		}
	}
	report.SelectedFormat = selectedFormat
	report.ContributingStrategies = merged.Contributors

	verdict := quality.Assess(quality.Input{
		FormatScore:       formatScore,
		ManRawContributed: manRawContributed,
		HasFlag:           len(merged.GlobalFlags) > 0,
		HasDescription:    merged.Description != "",
		HasUsage:          hasUsage,
		RecognizedLines:   recognized,
		RelevantLines:     relevant,
	}, e.Options.Policy)

	report.Confidence = verdict.Confidence
	report.Coverage = verdict.Coverage
	report.Tier = verdict.Tier
	report.QualityReasons = verdict.Reasons
	report.AcceptedForSuggestions = verdict.AcceptedForSuggestions
	report.Warnings = append(report.Warnings, merged.Warnings...)
	report.SuggestionHints = buildSuggestionHints(lines, report.UnresolvedLines, merged)

	s := schema.NewCommandSchema(command, source)
	s.Description = merged.Description
	s.GlobalFlags = merged.GlobalFlags
	s.Subcommands = merged.Subcommands
	s.Positional = merged.Positional
	s.Confidence = verdict.Confidence

	validationErrs := schema.ValidateSchema(&s)
	for _, verr := range validationErrs {
		report.ValidationErrors = append(report.ValidationErrors, verr.Error())
	}
	if len(validationErrs) > 0 {
		s.GlobalFlags = dropInvalidFlags(s.GlobalFlags)
		s.Subcommands = dropInvalidFlagsFromSubcommands(s.Subcommands)
	}

	s.Sort()
	report.Success = true

	if !verdict.AcceptedForSuggestions && (e.Options.Policy.MinConfidence > 0 || e.Options.Policy.MinCoverage > 0) {
		code := schema.FailureQualityRejected
		report.FailureCode = &code
	}

	return &s, report
}

// extractViaUnion probes both the man page and the --help sequence
// independently via probe.ProbeUnion, running the pipeline on whichever
// were accepted and combining their positional args under the Union
// merge strategy (§4.4): the longer list wins, with missing
// descriptions backfilled by index from the shorter one.
func (e *Extractor) extractViaUnion(ctx context.Context, command string, logger *zap.Logger) (*schema.CommandSchema, *schema.ExtractionReport, string) {
	man, help := probe.ProbeUnion(ctx, command, probe.Options{
		Timeout:    e.Options.ProbeTimeout,
		Permission: e.Options.Permission,
		Logger:     logger,
	})

	var primary, secondary probe.Outcome
	var haveSecondary bool
	switch {
	case man.Accepted && help.Accepted:
		primary, secondary, haveSecondary = man, help, true
	case man.Accepted:
		primary = man
	case help.Accepted:
		primary = help
	default:
		report := schema.NewExtractionReport(command)
		report.Success = false
		if man.FailureCode != nil {
			report.FailureCode = man.FailureCode
			report.FailureDetail = man.FailureDetail
		} else {
			report.FailureCode = help.FailureCode
			report.FailureDetail = help.FailureDetail
		}
		report.ProbeAttempts = append(append([]schema.ProbeAttemptReport{}, man.Attempts...), help.Attempts...)
		return nil, report, ""
	}

	attempts := append(append([]schema.ProbeAttemptReport{}, man.Attempts...), help.Attempts...)
	s, report := e.runPipeline(command, primary.Text, schema.SourceHelpCommand, attempts)
	if s == nil {
		return nil, report, primary.ExecutablePath
	}

	if haveSecondary {
		if secondarySchema, _ := e.runPipeline(command, secondary.Text, schema.SourceHelpCommand, nil); secondarySchema != nil {
			s.Positional = merge.UnionPositional(s.Positional, secondarySchema.Positional)
		}
	}

	return s, report, primary.ExecutablePath
}

// enrichSubcommands recursively probes "<command> <path...> --help" for
// each discovered subcommand, per §4.6, filling in flags/positional/
// nested subcommands a strategy could only guess at from the parent's
// two-column listing. The Recursor shares its probe budget and cycle-
// detection set across the whole call tree.
func (e *Extractor) enrichSubcommands(ctx context.Context, command string, subs []schema.SubcommandSchema, path []string, recursor *probe.Recursor) []schema.SubcommandSchema {
	if len(subs) == 0 {
		return subs
	}

	siblingNames := make([]string, len(subs))
	for i, sub := range subs {
		siblingNames[i] = sub.Name
	}

	for i := range subs {
		subPath := append(append([]string{}, path...), subs[i].Name)

		outcome, ok := recursor.ProbeSubcommand(ctx, command, subPath, siblingNames)
		if !ok {
			continue
		}

		subSchema, _ := e.runPipeline(command, outcome.Text, schema.SourceHelpCommand, outcome.Attempts)
		if subSchema == nil {
			continue
		}

		if subs[i].Description == "" {
			subs[i].Description = subSchema.Description
		}
		if len(subSchema.GlobalFlags) > 0 {
			subs[i].Flags = subSchema.GlobalFlags
		}
		if len(subSchema.Positional) > 0 {
			subs[i].Positional = subSchema.Positional
		}
		if len(subSchema.Subcommands) > 0 {
			subs[i].Subcommands = e.enrichSubcommands(ctx, command, subSchema.Subcommands, subPath, recursor)
		}
	}

	return subs
}

// dropInvalidFlags discards flags with no short or long form and, per
// §7's "such flags are discarded from the merged schema but remain
// listed in validation_errors," any later flag that duplicates a short
// or long form already kept — the same invariant schema.ValidateSchema
// checks for. It keeps the first occurrence of a given form and drops
// the rest, so the repaired schema would itself re-validate cleanly.
func dropInvalidFlags(flags []schema.FlagSchema) []schema.FlagSchema {
	out := make([]schema.FlagSchema, 0, len(flags))
	seen := make(map[string]bool, len(flags)*2)
	for _, f := range flags {
		if f.Short == "" && f.Long == "" {
			continue
		}
		if f.Short != "" && seen[f.Short] {
			continue
		}
		if f.Long != "" && seen[f.Long] {
			continue
		}
		if f.Short != "" {
			seen[f.Short] = true
		}
		if f.Long != "" {
			seen[f.Long] = true
		}
		out = append(out, f)
	}
	return out
}

// dropInvalidFlagsFromSubcommands applies dropInvalidFlags at every
// level of a subcommand tree, since validateFlags checks each
// subcommand's own Flags the same way it checks GlobalFlags.
func dropInvalidFlagsFromSubcommands(subs []schema.SubcommandSchema) []schema.SubcommandSchema {
	for i := range subs {
		subs[i].Flags = dropInvalidFlags(subs[i].Flags)
		subs[i].Subcommands = dropInvalidFlagsFromSubcommands(subs[i].Subcommands)
	}
	return subs
}

func hasUsageLine(lines []lineclass.Line) bool {
	for _, l := range lines {
		if l.Kind == lineclass.KindUsageLine {
			return true
		}
	}
	return false
}

func countCoverage(lines []lineclass.Line, recognized map[int]bool) (relevant, recognizedCount int) {
	for i, l := range lines {
		if !lineclass.IsRelevant(l.Kind) {
			continue
		}
		relevant++
		if recognized[i] {
			recognizedCount++
		}
	}
	return
}

func unresolvedIndices(lines []lineclass.Line, recognized map[int]bool) []int {
	var out []int
	for i, l := range lines {
		if !lineclass.IsRelevant(l.Kind) {
			continue
		}
		if !recognized[i] {
			out = append(out, i)
		}
	}
	return out
}

func buildSuggestionHints(lines []lineclass.Line, unresolved []int, merged *merge.Result) []schema.SuggestionHint {
	known := make([]string, 0, len(merged.GlobalFlags)+len(merged.Subcommands))
	for _, f := range merged.GlobalFlags {
		known = append(known, f.CanonicalName())
	}
	for _, s := range merged.Subcommands {
		known = append(known, s.Name)
	}

	var hints []schema.SuggestionHint
	for _, idx := range unresolved {
		if idx >= len(lines) {
			continue
		}
		l := lines[idx]
		if l.Kind != lineclass.KindFlagLine && l.Kind != lineclass.KindSubcommandLine {
			continue
		}
		token := firstToken(l.Stripped)
		if token == "" {
			continue
		}
		if match, dist := suggest.Closest(token, known); match != "" {
			hints = append(hints, schema.SuggestionHint{LineIndex: idx, Token: token, Suggested: match, Distance: dist})
		}
	}
	return hints
}

func firstToken(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' {
			return s[:i]
		}
	}
	return s
}

func resolveForCache(command string) (string, error) {
	return probeResolveExecutable(command)
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func trimmedNonEmpty(s string) string {
	return trimSpaceCustom(s)
}

func trimSpaceCustom(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
