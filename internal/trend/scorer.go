// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"math"
	"time"
)

// ScoreInput bundles everything the Scorer needs for one topic key,
// assembled by the engine from the aggregate, its baseline, its
// cluster membership, and its label validation result.
type ScoreInput struct {
	Key   string
	Title string

	LabelQuality  LabelQuality
	LabelSource   string
	IsEventPhrase bool

	Baseline RollingBaseline

	FirstSeen time.Time
	LastSeen  time.Time
	Now       time.Time

	Current1h  int
	Current6h  int
	Current24h int

	SourceFamilyCount int
	NewsSourceCount   int // distinct news-type (article+aggregator) domains contributing
	HasNews           bool
	HasSocial         bool
	Tier1Count        int
	Tier2Count        int
	Tier3Count        int

	HasContext bool

	Evergreen            bool
	SingleWordEntityOnly bool
}

// Scorer computes velocity, z-score, composite rank, legacy trend
// score, trend stage, and breaking-path classification. It is pure
// math over ScoreInput and holds no state of its own.
type Scorer struct{}

// NewScorer constructs a stateless scorer.
func NewScorer() *Scorer { return &Scorer{} }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// computeZAndBaselineQuality implements the z-score formula with the
// historical/Poisson-fallback split.
func computeZAndBaselineQuality(in ScoreInput) (z, baselineQuality float64) {
	hasHistory := in.Baseline.HasHistoricalBaseline()
	if hasHistory && in.Baseline.StdDev7d > 0 {
		z = clamp((float64(in.Current1h)-in.Baseline.Mean7d)/in.Baseline.StdDev7d, -2, 10)
		return z, 1.0
	}
	baselineQuality = 0.6
	if hasHistory {
		baselineQuality = 1.0
	}
	conservativeBaseline := math.Max(0.5, float64(in.Current1h)/3)
	poissonSD := math.Sqrt(math.Max(1, conservativeBaseline))
	z = clamp(((float64(in.Current1h)-conservativeBaseline)/poissonSD)*baselineQuality, -2, 10)
	return z, baselineQuality
}

// computeVelocity computes velocity/velocity_6h/acceleration.
func computeVelocity(in ScoreInput) (velocity, velocity6h, acceleration float64) {
	b7 := in.Baseline.Mean7d
	if b7 > 0 {
		velocity = ((float64(in.Current1h) - b7) / b7) * 100
	} else {
		velocity = float64(in.Current1h) * 50
	}

	rate6h := float64(in.Current6h) / 6
	if b7 > 0 {
		velocity6h = ((rate6h - b7) / b7) * 100
	} else {
		velocity6h = rate6h * 50
	}

	if rate6h > 0 {
		acceleration = ((float64(in.Current1h) - rate6h) / rate6h) * 100
	} else if in.Current1h > 0 {
		acceleration = 100
	}
	return velocity, velocity6h, acceleration
}

func log2(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log2(v)
}

// volumeGate implements the minimum-activity precondition.
func volumeGate(in ScoreInput) bool {
	return in.Current1h >= 2 || in.Current24h >= 5 || in.SourceFamilyCount >= 2
}

func hasTier12(in ScoreInput) bool {
	return in.Tier1Count > 0 || in.Tier2Count > 0
}

// Score computes the full set of explainable scoring fields for one
// topic. cluster may be nil if the topic is a singleton.
func (s *Scorer) Score(in ScoreInput, cluster *PhraseCluster) TrendEvent {
	z, baselineQuality := computeZAndBaselineQuality(in)
	velocity, velocity6h, acceleration := computeVelocity(in)

	ageHours := in.Now.Sub(in.LastSeen).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	recencyDecay := RecencyDecay(ageHours)
	evergreenPenalty := EvergreenPenalty(in.Evergreen, in.SingleWordEntityOnly, in.Baseline.HasHistoricalBaseline(), z)
	labelQualityModifier := LabelQualityModifier(in.LabelQuality, hasTier12(in), in.HasContext)

	velocityComponent := math.Min(50, math.Max(0, z*5)) * baselineQuality

	corroborationComponent := 0.0
	switch {
	case in.SourceFamilyCount >= 3:
		corroborationComponent = 25
	case in.SourceFamilyCount >= 2:
		corroborationComponent = 15
	}
	if in.HasNews && in.HasSocial {
		corroborationComponent += 10
	}
	if hasTier12(in) {
		corroborationComponent += 5
	}
	corroborationComponent = math.Min(30, corroborationComponent)

	activityComponent := math.Min(20, 4*log2(float64(in.Current1h+1))+2*log2(float64(in.Current24h+1)))

	// context_penalty is not separately specified beyond the
	// label-quality modifier's own no-context discount;
	// kept as an explicit multiplicative identity slot here so the
	// factor is visible in confidence_factors without double-counting
	// the discount already folded into labelQualityModifier.
	contextPenalty := 1.0

	rankScore := round1(10 * (velocityComponent + corroborationComponent + activityComponent) *
		recencyDecay * evergreenPenalty * labelQualityModifier * contextPenalty)

	volGate := volumeGate(in)

	velocityScore := z * 10 * baselineQuality
	corroborationBoost := 0.0
	if in.SourceFamilyCount >= 2 {
		corroborationBoost = 15
		if in.HasNews && in.HasSocial {
			corroborationBoost += 15
		}
	}
	volumeBonus := math.Min(20, 5*log2(float64(in.Current24h+1)))
	tierBoost := 0.0
	switch {
	case in.Tier1Count > 0:
		tierBoost = 20
	case in.Tier2Count > 0:
		tierBoost = 12
	}
	isTier3Only := in.Tier1Count == 0 && in.Tier2Count == 0 && in.Tier3Count > 0
	tier3OnlyPenalty := 1.0
	if isTier3Only {
		tier3OnlyPenalty = 0.5
	}
	trendScore := (velocityScore + corroborationBoost + volumeBonus + tierBoost) * tier3OnlyPenalty

	isTrending := trendScore >= 20 && volGate && in.HasContext

	corroborationScore := int(math.Round(corroborationComponent / 5))

	effectiveCurrent1h := in.Current1h
	if effectiveCurrent1h == 0 {
		switch {
		case in.Current6h >= 5 && in.SourceFamilyCount >= 2 && ageHours < 4:
			effectiveCurrent1h = int(math.Ceil(float64(in.Current6h) / 2))
		case in.SourceFamilyCount >= 3 && ageHours < 2:
			effectiveCurrent1h = int(math.Min(5, float64(in.SourceFamilyCount+boolToInt(in.HasNews))))
		}
	}

	breakingPath := s.classifyBreaking(in, z, rankScore, ageHours, corroborationScore, effectiveCurrent1h, volGate)
	isBreaking := breakingPath != BreakingNone && isTrending

	stage := classifyStage(z, acceleration, ageHours)

	confidenceScore := int(math.Round(clamp(rankScore, 0, 100)))

	var clusterID *string
	relatedPhrases := []string{}
	if cluster != nil && len(cluster.MemberKeys) >= 2 {
		id := cluster.CanonicalKey
		clusterID = &id
		for title := range cluster.MemberTitles {
			if title != in.Title {
				relatedPhrases = append(relatedPhrases, title)
			}
		}
	}

	var peakAt *time.Time
	if stage == StagePeaking {
		t := in.LastSeen
		peakAt = &t
	}

	return TrendEvent{
		EventKey:       in.Key,
		EventTitle:     in.Title,
		CanonicalLabel: in.Title,
		IsEventPhrase:  in.IsEventPhrase,
		LabelQuality:   in.LabelQuality,
		LabelSource:    in.LabelSource,

		RelatedPhrases: relatedPhrases,
		ClusterID:      clusterID,

		FirstSeen: in.FirstSeen,
		LastSeen:  in.LastSeen,
		PeakAt:    peakAt,

		Baseline7d:  round1(in.Baseline.Mean7d),
		Baseline30d: round1(in.Baseline.Mean30d),

		Current1h:  in.Current1h,
		Current6h:  in.Current6h,
		Current24h: in.Current24h,

		Velocity:       round1(velocity),
		Velocity1h:     round1(velocity),
		Velocity6h:     round1(velocity6h),
		Acceleration:   round1(acceleration),
		ZScoreVelocity: round1(z),

		TrendScore:      round1(trendScore),
		ConfidenceScore: confidenceScore,
		RankScore:       rankScore,

		RecencyDecay:     round3(recencyDecay),
		EvergreenPenalty: round3(evergreenPenalty),

		ConfidenceFactors: ConfidenceFactors{
			VelocityComponent:      round1(velocityComponent),
			CorroborationComponent: round1(corroborationComponent),
			ActivityComponent:      round1(activityComponent),
			RecencyDecay:           round3(recencyDecay),
			EvergreenPenalty:       round3(evergreenPenalty),
			LabelQualityModifier:   round3(labelQualityModifier),
			ContextPenalty:         round3(contextPenalty),
			BaselineQuality:        round3(baselineQuality),
			VolumeGate:             volGate,
			ContextSufficient:      in.HasContext,
			BreakingCriteria: BreakingDetail{
				BreakingPath:           breakingPath,
				HasTier12Corroboration: hasTier12(in),
				EffectiveCurrent1h:     effectiveCurrent1h,
			},
		},

		IsTrending: isTrending,
		IsBreaking: isBreaking,
		TrendStage: stage,

		SourceCount:        in.SourceFamilyCount,
		NewsSourceCount:    in.NewsSourceCount,
		CorroborationScore: corroborationScore,

		Tier1Count: in.Tier1Count,
		Tier2Count: in.Tier2Count,
		Tier3Count: in.Tier3Count,

		HasTier12Corroboration: hasTier12(in),
		IsTier3Only:            isTier3Only,

		UpdatedAt: in.Now,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// classifyStage implements trend-stage classification.
//
// Conditions are evaluated in the listed priority order; "surging"'s
// two alternative conditions (z>2&&acc>20, or a z>0.5 fallback) are
// split so the fallback is tried only after every higher-priority
// stage has been ruled out, matching the first-match-wins convention
// used for breaking paths.
func classifyStage(z, acceleration, ageHours float64) TrendStage {
	switch {
	case z > 3 && acceleration > 50 && ageHours < 3:
		return StageEmerging
	case z > 2 && acceleration > 20:
		return StageSurging
	case z > 1.5 && acceleration < -20:
		return StagePeaking
	case z < 0 || (z < 0.5 && acceleration < -30):
		return StageDeclining
	case z > 0.5:
		return StageSurging
	default:
		return StageStable
	}
}

// classifyBreaking implements a first-matching ordered criterion.
// Breaking requires tier1/2 corroboration and the volume
// gate, checked once up front.
func (s *Scorer) classifyBreaking(in ScoreInput, z, rankScore, ageHours float64, corroborationScore, effectiveCurrent1h int, volGate bool) BreakingPath {
	if !hasTier12(in) || !volGate {
		return BreakingNone
	}
	news := in.NewsSourceCount

	switch {
	case z > 3 && news >= 1 && ageHours < 8:
		return BreakingFreshSpike
	case z >= 4 && news >= 1 && ageHours < 24:
		return BreakingExtremeZScore
	case rankScore >= 60 && z > 2 && ageHours < 4:
		return BreakingHighRankFresh
	case in.Baseline.HasHistoricalBaseline() && (float64(in.Current1h)-in.Baseline.Mean7d) > 4 && in.SourceFamilyCount >= 2 && ageHours < 12:
		return BreakingBaselineSurge
	case corroborationScore >= 6 && effectiveCurrent1h >= 5 && ageHours < 6:
		return BreakingHighCorroboration
	case effectiveCurrent1h >= 8 && news >= 2 && ageHours < 3:
		return BreakingExtremeActivity
	}
	return BreakingNone
}
