// Package probe implements the Probe Driver stage (§4.6): safely
// invoking a live tool to obtain help text across a bounded sequence of
// help-flag candidates, recording a ProbeAttemptReport for each try.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/command-schema/discover/internal/schema"
)

// HelpFlags is the probe sequence tried in order, stopping at the
// first accepted output, per §4.6.
var HelpFlags = []string{"--help", "-h", "help", "--help-all"}

const maxCapturedBytes = 1 << 20 // 1 MiB per stream
const defaultProbeTimeout = 3 * time.Second

// PermissionPredicate refuses a probe before it runs; a non-nil error
// becomes failure code permission_blocked.
type PermissionPredicate func(executablePath string) error

// Options configures one probe run.
type Options struct {
	Timeout    time.Duration
	Permission PermissionPredicate
	Logger     *zap.Logger
}

// Outcome is the result of probing one command: the accepted help text
// (if any), which stream it came from, and every attempt made.
type Outcome struct {
	Accepted       bool
	Text           string
	Stream         string
	FailureCode    *schema.FailureCode
	FailureDetail  string
	Attempts       []schema.ProbeAttemptReport
	ExecutablePath string
}

// Probe resolves command on PATH (or accepts an absolute path), then
// tries man-page-first acquisition followed by the HelpFlags sequence,
// honoring opts.Permission and opts.Timeout.
func Probe(ctx context.Context, command string, opts Options) Outcome {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("probe_id", NewProbeWorkspaceID()))

	executablePath, err := resolveExecutable(command)
	if err != nil {
		code := schema.FailureNotInstalled
		return Outcome{FailureCode: &code, FailureDetail: err.Error()}
	}
	logger.Debug("resolved executable", zap.String("command", command), zap.String("path", executablePath))

	if opts.Permission != nil {
		if err := opts.Permission(executablePath); err != nil {
			code := schema.FailurePermissionBlocked
			return Outcome{FailureCode: &code, FailureDetail: err.Error(), ExecutablePath: executablePath}
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	outcome := Outcome{ExecutablePath: executablePath}

	if attempt, text, stream, ok := tryManPage(ctx, command, timeout); attempt.HelpFlag != "" {
		outcome.Attempts = append(outcome.Attempts, attempt)
		if ok {
			outcome.Accepted = true
			outcome.Text = text
			outcome.Stream = stream
			return outcome
		}
	}

	help := probeHelpFlagSequence(ctx, executablePath, timeout, logger)
	outcome.Attempts = append(outcome.Attempts, help.Attempts...)
	if help.Accepted {
		outcome.Accepted = true
		outcome.Text = help.Text
		outcome.Stream = help.Stream
		return outcome
	}
	outcome.FailureCode = help.FailureCode
	outcome.FailureDetail = help.FailureDetail
	return outcome
}

// ProbeUnion independently probes both the man page and the --help
// flag sequence for the same command, rather than stopping at the
// first accepted source, so the caller can Union-merge the two
// outcomes' positional-arg lists per §4.4. Used by the batch
// orchestrator's union-probes mode.
func ProbeUnion(ctx context.Context, command string, opts Options) (man Outcome, help Outcome) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("probe_id", NewProbeWorkspaceID()))

	executablePath, err := resolveExecutable(command)
	if err != nil {
		code := schema.FailureNotInstalled
		fail := Outcome{FailureCode: &code, FailureDetail: err.Error()}
		return fail, fail
	}
	logger.Debug("resolved executable", zap.String("command", command), zap.String("path", executablePath))

	if opts.Permission != nil {
		if err := opts.Permission(executablePath); err != nil {
			code := schema.FailurePermissionBlocked
			fail := Outcome{FailureCode: &code, FailureDetail: err.Error(), ExecutablePath: executablePath}
			return fail, fail
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	man = Outcome{ExecutablePath: executablePath}
	if attempt, text, stream, ok := tryManPage(ctx, command, timeout); attempt.HelpFlag != "" {
		man.Attempts = append(man.Attempts, attempt)
		if ok {
			man.Accepted = true
			man.Text = text
			man.Stream = stream
		} else {
			code := schema.FailureNotHelpOutput
			man.FailureCode = &code
			man.FailureDetail = attempt.RejectReason
		}
	}

	help = probeHelpFlagSequence(ctx, executablePath, timeout, logger)
	help.ExecutablePath = executablePath
	return man, help
}

// probeHelpFlagSequence tries HelpFlags in order against an already-
// resolved executable, stopping at the first accepted output.
func probeHelpFlagSequence(ctx context.Context, executablePath string, timeout time.Duration, logger *zap.Logger) Outcome {
	outcome := Outcome{ExecutablePath: executablePath}

	allTimedOut := true
	var lastRejection string

	for _, flag := range HelpFlags {
		attempt, text, stream, ok := tryHelpFlag(ctx, executablePath, flag, timeout, logger)
		outcome.Attempts = append(outcome.Attempts, attempt)
		if !attempt.TimedOut {
			allTimedOut = false
		}
		if ok {
			outcome.Accepted = true
			outcome.Text = text
			outcome.Stream = stream
			return outcome
		}
		if attempt.RejectReason != "" {
			lastRejection = attempt.RejectReason
		}
	}

	if allTimedOut && len(outcome.Attempts) > 0 {
		code := schema.FailureTimeout
		outcome.FailureCode = &code
		outcome.FailureDetail = "every probe attempt exceeded the timeout"
		return outcome
	}

	code := schema.FailureNotHelpOutput
	outcome.FailureCode = &code
	outcome.FailureDetail = lastRejection
	return outcome
}

func resolveExecutable(command string) (string, error) {
	if strings.HasPrefix(command, "/") {
		if info, err := os.Stat(command); err == nil && !info.IsDir() {
			return command, nil
		}
		return "", fmt.Errorf("executable not found at %s", command)
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH", command)
	}
	return path, nil
}

// probeEnv returns a fresh environment minus interactive/pager
// variables plus a deterministic override set, per §4.6.
func probeEnv() []string {
	overrides := map[string]string{
		"DISPLAY":              "",
		"WAYLAND_DISPLAY":      "",
		"TERM":                 "dumb",
		"NO_COLOR":             "1",
		"PAGER":                "cat",
		"MANPAGER":             "cat",
		"GIT_PAGER":            "cat",
		"GIT_TERMINAL_PROMPT":  "0",
		"SYSTEMD_PAGER":        "cat",
		"DEBIAN_FRONTEND":      "noninteractive",
		"BROWSER":              "true",
	}

	env := make([]string, 0, len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range os.Environ() {
		name, _, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		if v, ok := overrides[name]; ok {
			env = append(env, name+"="+v)
			seen[name] = true
			continue
		}
		env = append(env, kv)
	}
	for name, v := range overrides {
		if !seen[name] {
			env = append(env, name+"="+v)
		}
	}
	return env
}

func tryHelpFlag(ctx context.Context, executablePath, flag string, timeout time.Duration, logger *zap.Logger) (schema.ProbeAttemptReport, string, string, bool) {
	return tryHelpFlagArgs(ctx, executablePath, []string{flag}, timeout, logger)
}

func tryHelpFlagArgs(ctx context.Context, executablePath string, args []string, timeout time.Duration, logger *zap.Logger) (schema.ProbeAttemptReport, string, string, bool) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	flag := strings.Join(args, " ")
	start := time.Now()
	cmd := exec.CommandContext(runCtx, executablePath, args...)
	cmd.Env = probeEnv()
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = capWriter(&stdout, maxCapturedBytes)
	cmd.Stderr = capWriter(&stderr, maxCapturedBytes)

	runErr := cmd.Run()
	elapsed := time.Since(start)

	attempt := schema.ProbeAttemptReport{
		HelpFlag:   flag,
		DurationMs: elapsed.Milliseconds(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		attempt.TimedOut = true
		attempt.RejectReason = "timed out"
		return attempt, "", "", false
	}

	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil {
		attempt.RejectReason = runErr.Error()
		logger.Debug("probe spawn failed", zap.String("flag", flag), zap.Error(runErr))
		return attempt, "", "", false
	}
	attempt.ExitCode = &exitCode

	stdoutText, stderrText := stdout.String(), stderr.String()

	if exitCode == 0 {
		attempt.Accepted = true
		attempt.Stream = "stdout"
		return attempt, stdoutText, "stdout", true
	}

	if looksLikeHelp(stdoutText) {
		attempt.Accepted = true
		attempt.Stream = "stdout"
		return attempt, stdoutText, "stdout", true
	}
	if looksLikeHelp(stderrText) {
		attempt.Accepted = true
		attempt.Stream = "stderr"
		return attempt, stderrText, "stderr", true
	}

	attempt.RejectReason = classifyRejection(stdoutText + stderrText)
	return attempt, "", "", false
}

// tryManPage tries "man manName", e.g. the bare command at the top
// level or a hyphenated "<command>-<subcommand>..." candidate when
// called from the recursive subcommand prober.
func tryManPage(ctx context.Context, manName string, timeout time.Duration) (schema.ProbeAttemptReport, string, string, bool) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	manPath, err := exec.LookPath("man")
	if err != nil {
		return schema.ProbeAttemptReport{}, "", "", false
	}

	shCmd := fmt.Sprintf("%s %s 2>/dev/null | col -bx 2>/dev/null", manPath, shellQuote(manName))
	cmd := exec.CommandContext(runCtx, "sh", "-c", shCmd)
	cmd.Env = probeEnv()

	var out bytes.Buffer
	cmd.Stdout = capWriter(&out, maxCapturedBytes)
	runErr := cmd.Run()
	elapsed := time.Since(start)

	attempt := schema.ProbeAttemptReport{HelpFlag: "man " + manName, DurationMs: elapsed.Milliseconds()}

	if runCtx.Err() == context.DeadlineExceeded {
		attempt.TimedOut = true
		return attempt, "", "", false
	}
	if runErr != nil || out.Len() == 0 {
		return attempt, "", "", false
	}

	text := out.String()
	if !looksLikeHelp(text) {
		return attempt, "", "", false
	}
	attempt.Accepted = true
	attempt.Stream = "stdout"
	return attempt, text, "stdout", true
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// NewProbeWorkspaceID returns a fresh identifier for one Probe call, so
// its attempts can be correlated in logs even when many probes run
// concurrently across a batch's worker pool.
func NewProbeWorkspaceID() string {
	return uuid.NewString()
}
