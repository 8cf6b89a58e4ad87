// Package scoring maps raw qualitative analysis values onto normalized
// percentage scores, computes the aggregate overall-health score, and derives
// the recommendation list. All mapping constants live in the table literals
// in this package so display percents and overall-score weights can each be
// tuned in one place.
package scoring

import (
	"fmt"
	"math"

	"github.com/vitalscan/vitalscan-server/pkg/model"
)

// metricSpec is one row of the per-modality display table: which indicator to
// read, how each qualitative value translates to a percent, and the
// normal-range baseline the patient value is compared against.
type metricSpec struct {
	label    string
	normal   string
	path     []string
	percents map[string]float64
	baseline float64
}

var displayTables = map[model.Modality][]metricSpec{
	model.ModalityFace: {
		{
			label:    "Hydration",
			normal:   "Good",
			path:     []string{"healthIndicators", "hydration"},
			percents: map[string]float64{"poor": 35, "fair": 60, "good": 85},
			baseline: 85,
		},
		{
			label:    "Stress Level",
			normal:   "Low",
			path:     []string{"healthIndicators", "stressLevel"},
			percents: map[string]float64{"high": 35, "moderate": 60, "low": 85},
			baseline: 85,
		},
		{
			label:    "Sleep Quality",
			normal:   "Good/Adequate",
			path:     []string{"healthIndicators", "sleepQuality"},
			percents: map[string]float64{"poor": 40, "adequate": 70, "good": 90},
			baseline: 85,
		},
	},
	model.ModalityEyes: {
		{
			label:    "Overall Eye Health",
			normal:   "Good",
			path:     []string{"eyeHealth", "overall"},
			percents: map[string]float64{"poor": 35, "fair": 60, "good": 90},
			baseline: 85,
		},
		{
			label:    "Redness",
			normal:   "None/Minimal",
			path:     []string{"eyeHealth", "redness"},
			percents: map[string]float64{"none": 90, "minimal": 75, "moderate": 50, "high": 30},
			baseline: 85,
		},
	},
	model.ModalityTongue: {
		{
			label:    "Qi Balance",
			normal:   "Balanced",
			path:     []string{"tcmIndicators", "qi"},
			percents: map[string]float64{"balanced": 85, "deficient": 60, "excess": 60},
			baseline: 85,
		},
	},
	model.ModalitySkin: {
		{
			label:    "Skin Hydration",
			normal:   "Adequate",
			path:     []string{"hydration", "level"},
			percents: map[string]float64{"low": 40, "adequate": 85, "high": 90},
			baseline: 85,
		},
		{
			label:    "Elasticity",
			normal:   "Normal/High",
			path:     []string{"texture", "elasticity"},
			percents: map[string]float64{"low": 40, "normal": 75, "high": 90},
			baseline: 85,
		},
	},
	model.ModalityNails: {
		{
			label:    "Nail Strength",
			normal:   "Good",
			path:     []string{"nailHealth", "strength"},
			percents: map[string]float64{"poor": 40, "fair": 65, "good": 90},
			baseline: 85,
		},
	},
	model.ModalityAudio: {
		{
			label:    "Breathing Efficiency",
			normal:   "Good",
			path:     []string{"breathingPatterns", "efficiency"},
			percents: map[string]float64{"poor": 40, "adequate": 70, "good": 88},
			baseline: 85,
		},
	},
}

// Heart rate maps linearly: 40 bpm -> 0%, 120 bpm -> 100%, clamped. The
// baseline sits at a resting rate of 75 bpm.
const (
	heartRateFloorBPM    = 40.0
	heartRateSpanBPM     = 80.0
	heartRateBaselineBPM = 75.0
)

// ExtractMetrics derives the ordered comparison rows for one modality.
// Missing indicators and qualitative values outside the mapping tables are
// omitted rather than zero-filled, so an absent reading is never mistaken for
// a genuine zero. A nil or empty analysis yields no metrics.
func ExtractMetrics(modality model.Modality, analysis model.Analysis) []model.Metric {
	if len(analysis) == 0 {
		return nil
	}

	var metrics []model.Metric

	if modality == model.ModalityAudio {
		if bpm, ok := analysis.NumberAt("heartRate", "bpm"); ok {
			metrics = append(metrics, model.Metric{
				Label:          "Heart Rate",
				PatientValue:   fmt.Sprintf("%.0f bpm", bpm),
				NormalValue:    "60-100 bpm",
				PatientPercent: heartRatePercent(bpm),
				NormalPercent:  heartRatePercent(heartRateBaselineBPM),
			})
		}
	}

	for _, spec := range displayTables[modality] {
		value, ok := analysis.StringAt(spec.path...)
		if !ok {
			continue
		}
		percent, ok := spec.percents[value]
		if !ok {
			continue
		}
		metrics = append(metrics, model.Metric{
			Label:          spec.label,
			PatientValue:   value,
			NormalValue:    spec.normal,
			PatientPercent: ClampPercent(percent),
			NormalPercent:  ClampPercent(spec.baseline),
		})
	}

	return metrics
}

func heartRatePercent(bpm float64) float64 {
	return math.Round(ClampPercent((bpm - heartRateFloorBPM) / heartRateSpanBPM * 100))
}

// ClampPercent bounds a percentage to [0,100].
func ClampPercent(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}
