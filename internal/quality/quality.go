// Package quality implements the Quality Gate stage (§4.7): computing
// confidence and coverage over a merged schema, assigning a tier, and
// deciding acceptance.
package quality

import "github.com/command-schema/discover/internal/schema"

// Policy holds the overridable weights behind the default quality
// formula, mirroring the Rust original's ExtractionQualityPolicy
// default()/permissive() pair (see DESIGN.md's Open Question decision).
type Policy struct {
	FormatWeight     float64
	StructuralWeight float64
	CoverageWeight   float64
	ManRawBonus      float64
	MinConfidence    float64
	MinCoverage      float64
	AllowLowQuality  bool
}

// DefaultPolicy is the literal weighting contract fixed by §4.7.
func DefaultPolicy() Policy {
	return Policy{
		FormatWeight:     0.45,
		StructuralWeight: 0.30,
		CoverageWeight:   0.25,
		ManRawBonus:      0.10,
		MinConfidence:    0.0,
		MinCoverage:      0.0,
		AllowLowQuality:  false,
	}
}

// PermissivePolicy relaxes acceptance thresholds while keeping the same
// weighting formula, for callers that want to surface low-quality
// schemas rather than reject them outright.
func PermissivePolicy() Policy {
	p := DefaultPolicy()
	p.AllowLowQuality = true
	return p
}

// Input is everything the gate needs about a merged extraction.
type Input struct {
	FormatScore     float64
	ManRawContributed bool
	HasFlag         bool
	HasDescription  bool
	HasUsage        bool
	RecognizedLines int
	RelevantLines   int
}

// Verdict is the gate's computed confidence, coverage, and tier.
type Verdict struct {
	Confidence             float64
	Coverage               float64
	Tier                   schema.QualityTier
	AcceptedForSuggestions bool
	Reasons                []string
}

// Assess computes coverage and confidence from in, assigns a tier, and
// decides acceptance against policy's thresholds.
func Assess(in Input, policy Policy) Verdict {
	coverage := 0.0
	if in.RelevantLines > 0 {
		coverage = float64(in.RecognizedLines) / float64(in.RelevantLines)
	}
	coverage = clamp01(coverage)

	structural := 0.0
	signals := 0
	if in.HasFlag {
		signals++
	}
	if in.HasDescription {
		signals++
	}
	if in.HasUsage {
		signals++
	}
	structural = float64(signals) / 3.0

	confidence := policy.FormatWeight*in.FormatScore +
		policy.StructuralWeight*structural +
		policy.CoverageWeight*coverage
	if in.ManRawContributed {
		confidence += policy.ManRawBonus
	}
	confidence = clamp01(confidence)

	v := Verdict{Confidence: confidence, Coverage: coverage}
	v.Tier = tier(confidence, coverage, in.HasFlag || in.RecognizedLines > 0)
	v.Reasons = reasons(v.Tier, confidence, coverage)

	v.AcceptedForSuggestions = accepted(v.Tier, policy) &&
		confidence >= policy.MinConfidence && coverage >= policy.MinCoverage

	return v
}

func tier(confidence, coverage float64, hasStructure bool) schema.QualityTier {
	switch {
	case confidence >= 0.85 && coverage >= 0.60:
		return schema.TierHigh
	case confidence >= 0.60 && coverage >= 0.20:
		return schema.TierMedium
	case hasStructure:
		return schema.TierLow
	default:
		return schema.TierFailed
	}
}

func accepted(t schema.QualityTier, policy Policy) bool {
	switch t {
	case schema.TierHigh, schema.TierMedium:
		return true
	case schema.TierLow:
		return policy.AllowLowQuality
	default:
		return false
	}
}

func reasons(t schema.QualityTier, confidence, coverage float64) []string {
	switch t {
	case schema.TierHigh:
		return []string{"confidence and coverage both meet the high-tier threshold"}
	case schema.TierMedium:
		return []string{"confidence and coverage meet the medium-tier threshold"}
	case schema.TierLow:
		return []string{"below medium thresholds but at least one flag or help line was recognized"}
	default:
		return []string{"no flags or subcommands were recognized"}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
