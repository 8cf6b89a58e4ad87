package scoring

import (
	"math"

	"github.com/vitalscan/vitalscan-server/pkg/model"
)

// factorSpec is one contributing factor of the overall-health score. The
// score constants are deliberately a separate table from the display percents
// in metrics.go: the two have always used slightly different weights.
type factorSpec struct {
	modality model.Modality
	path     []string
	scores   map[string]int
}

var overallFactors = []factorSpec{
	{
		modality: model.ModalityFace,
		path:     []string{"healthIndicators", "hydration"},
		scores:   map[string]int{"good": 85, "fair": 70, "poor": 70},
	},
	{
		modality: model.ModalityEyes,
		path:     []string{"eyeHealth", "overall"},
		scores:   map[string]int{"good": 90, "fair": 75, "poor": 75},
	},
	{
		modality: model.ModalityTongue,
		path:     []string{"tcmIndicators", "qi"},
		scores:   map[string]int{"balanced": 88, "deficient": 72, "excess": 72},
	},
	{
		modality: model.ModalitySkin,
		path:     []string{"hydration", "level"},
		scores:   map[string]int{"adequate": 87, "high": 73, "low": 73},
	},
	{
		modality: model.ModalityNails,
		path:     []string{"nailHealth", "strength"},
		scores:   map[string]int{"good": 89, "fair": 74, "poor": 74},
	},
	{
		modality: model.ModalityAudio,
		path:     []string{"breathingPatterns", "efficiency"},
		scores:   map[string]int{"good": 86, "adequate": 71, "poor": 71},
	},
}

// ScoreOverall computes the unweighted mean of every factor contributed by
// the present analyses. With zero contributing factors the score is 0 and
// callers must treat the result as "insufficient data".
func ScoreOverall(analyses map[model.Modality]model.Analysis) model.OverallHealth {
	total := 0
	factors := 0

	for _, spec := range overallFactors {
		analysis, ok := analyses[spec.modality]
		if !ok {
			continue
		}
		value, ok := analysis.StringAt(spec.path...)
		if !ok {
			continue
		}
		score, ok := spec.scores[value]
		if !ok {
			continue
		}
		total += score
		factors++
	}

	score := 0
	if factors > 0 {
		score = int(math.Round(float64(total) / float64(factors)))
	}

	return model.OverallHealth{
		Score:   score,
		Level:   HealthLevel(score),
		Factors: factors,
	}
}

// HealthLevel maps an overall score onto its qualitative level.
func HealthLevel(score int) string {
	switch {
	case score >= 85:
		return model.LevelExcellent
	case score >= 75:
		return model.LevelGood
	case score >= 65:
		return model.LevelFair
	default:
		return model.LevelNeedsAttention
	}
}
