package probe

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/command-schema/discover/internal/schema"
)

// MaxRecursiveProbeBudget bounds the total number of subcommand probes
// across one command's recursion, per §4.6.
const MaxRecursiveProbeBudget = 4096

var cycleProneCommands = map[string]bool{
	"stty": true,
	"tar":  true,
}

var skippedSubcommandNames = map[string]bool{
	"help": true, "version": true, "completion": true, "completions": true,
}

// Recursor drives recursive subcommand probing with cycle detection and
// a total probe budget shared across the whole recursion.
type Recursor struct {
	Options Options
	budget  int
	probed  map[string]bool
}

// NewRecursor returns a Recursor with a fresh budget and probed set.
func NewRecursor(opts Options) *Recursor {
	return &Recursor{Options: opts, budget: MaxRecursiveProbeBudget, probed: make(map[string]bool)}
}

// ProbeSubcommand probes "<command> <path...> --help" for a discovered
// subcommand, honoring the cycle-detection set, the probe budget, and
// the cycle-prone skip list. siblingNames is the set of subcommand
// names discovered at the parent level, used for parent-help-echo
// detection.
func (r *Recursor) ProbeSubcommand(ctx context.Context, command string, path []string, siblingNames []string) (Outcome, bool) {
	if len(path) == 0 {
		return Outcome{}, false
	}
	last := path[len(path)-1]
	if skippedSubcommandNames[last] {
		return Outcome{}, false
	}
	if cycleProneCommands[command] && len(path) > 1 {
		return Outcome{}, false
	}

	key := command + " " + strings.Join(path, " ")
	if r.probed[key] {
		return Outcome{}, false
	}
	if r.budget <= 0 {
		return Outcome{}, false
	}
	r.probed[key] = true
	r.budget--

	timeout := r.Options.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	var manAttempts []schema.ProbeAttemptReport
	for _, candidate := range manPageCandidates(command, path) {
		attempt, text, stream, ok := tryManPage(ctx, candidate, timeout)
		if attempt.HelpFlag != "" {
			manAttempts = append(manAttempts, attempt)
		}
		if !ok {
			continue
		}
		outcome := Outcome{Accepted: true, Text: text, Stream: stream, Attempts: manAttempts}
		if len(path) > 1 && isParentHelpEcho(text, siblingNames) {
			return outcome, false
		}
		return outcome, true
	}

	args := append([]string{}, path...)
	args = append(args, "--help")
	outcome := probeWithArgs(ctx, command, args, r.Options)
	outcome.Attempts = append(manAttempts, outcome.Attempts...)
	if !outcome.Accepted {
		return outcome, false
	}

	if len(path) > 1 && isParentHelpEcho(outcome.Text, siblingNames) {
		return outcome, false
	}

	return outcome, true
}

// manPageCandidates builds the nested man-page naming convention of
// §4.6: "<command>-<path...>" tried from most specific (the full path)
// down to the first subcommand segment alone, e.g. for "git remote add"
// it tries "git-remote-add" then "git-remote" before the caller falls
// back to the --help sequence.
func manPageCandidates(command string, path []string) []string {
	candidates := make([]string, 0, len(path))
	for end := len(path); end >= 1; end-- {
		candidates = append(candidates, command+"-"+strings.Join(path[:end], "-"))
	}
	return candidates
}

// isParentHelpEcho reports whether text looks like it echoed the
// parent's full subcommand listing rather than giving subcommand-
// specific help: at least 3 of the parent's sibling names occur anywhere
// in text (case-insensitive substring match).
func isParentHelpEcho(text string, siblingNames []string) bool {
	if len(siblingNames) < 3 {
		return false
	}
	overlap := 0
	lower := strings.ToLower(text)
	for _, name := range siblingNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			overlap++
		}
	}
	return overlap >= 3
}

func probeWithArgs(ctx context.Context, executablePath string, args []string, opts Options) Outcome {
	resolved, err := resolveExecutable(executablePath)
	if err != nil {
		return Outcome{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	attempt, text, stream, ok := tryHelpFlagArgs(ctx, resolved, args, timeout, logger)
	return Outcome{
		Accepted:       ok,
		Text:           text,
		Stream:         stream,
		Attempts:       []schema.ProbeAttemptReport{attempt},
		ExecutablePath: resolved,
	}
}
