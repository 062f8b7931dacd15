package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/command-schema/discover/internal/schema"
)

func TestAssess_HighTier(t *testing.T) {
	v := Assess(Input{
		FormatScore:     1.0,
		HasFlag:         true,
		HasDescription:  true,
		HasUsage:        true,
		RecognizedLines: 9,
		RelevantLines:   10,
	}, DefaultPolicy())

	assert.Equal(t, schema.TierHigh, v.Tier)
	assert.True(t, v.AcceptedForSuggestions)
	assert.GreaterOrEqual(t, v.Confidence, 0.85)
	assert.GreaterOrEqual(t, v.Coverage, 0.60)
}

func TestAssess_LowTierRejectedByDefaultPolicy(t *testing.T) {
	v := Assess(Input{
		FormatScore:     0.2,
		HasFlag:         true,
		RecognizedLines: 1,
		RelevantLines:   10,
	}, DefaultPolicy())

	assert.Equal(t, schema.TierLow, v.Tier)
	assert.False(t, v.AcceptedForSuggestions)
}

func TestAssess_LowTierAcceptedByPermissivePolicy(t *testing.T) {
	v := Assess(Input{
		FormatScore:     0.2,
		HasFlag:         true,
		RecognizedLines: 1,
		RelevantLines:   10,
	}, PermissivePolicy())

	assert.Equal(t, schema.TierLow, v.Tier)
	assert.True(t, v.AcceptedForSuggestions)
}

func TestAssess_FailedTierWithNoStructure(t *testing.T) {
	v := Assess(Input{}, DefaultPolicy())
	assert.Equal(t, schema.TierFailed, v.Tier)
	assert.False(t, v.AcceptedForSuggestions)
	assert.Equal(t, 0.0, v.Confidence)
	assert.Equal(t, 0.0, v.Coverage)
}

func TestAssess_ManRawBonusAppliesOnlyWhenContributed(t *testing.T) {
	base := Input{FormatScore: 0.5, HasFlag: true, RecognizedLines: 5, RelevantLines: 10}
	withBonus := base
	withBonus.ManRawContributed = true

	v1 := Assess(base, DefaultPolicy())
	v2 := Assess(withBonus, DefaultPolicy())
	assert.Greater(t, v2.Confidence, v1.Confidence)
}

func TestAssess_ConfidenceNeverExceedsOne(t *testing.T) {
	v := Assess(Input{
		FormatScore:       1.0,
		ManRawContributed: true,
		HasFlag:           true,
		HasDescription:    true,
		HasUsage:          true,
		RecognizedLines:   10,
		RelevantLines:     10,
	}, DefaultPolicy())
	assert.LessOrEqual(t, v.Confidence, 1.0)
}
