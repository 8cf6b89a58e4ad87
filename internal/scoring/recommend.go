package scoring

import (
	"github.com/samber/lo"

	"github.com/vitalscan/vitalscan-server/pkg/model"
)

// Recommendation texts triggered by the per-modality rules below.
const (
	recNonComedogenic   = "Consider using non-comedogenic skincare products"
	recStressManagement = "Practice stress management techniques like meditation"
	recKeepEyeHabits    = "Continue good eye care habits"
	recScreenBreaks     = "Take more frequent screen breaks"
	recTCMConsult       = "Consider traditional Chinese medicine consultation"
	recMoisturize       = "Increase water intake and use moisturizer"
	recProteinIntake    = "Consider increasing protein intake"
	recBreathingDrills  = "Practice deep breathing exercises daily"
)

var generalRecommendations = []string{
	"Maintain regular exercise routine",
	"Get 7-9 hours of sleep nightly",
	"Eat a balanced diet rich in fruits and vegetables",
}

// BuildRecommendations applies the fixed per-modality advice rules, appends
// the general-health advice, and deduplicates by exact string match while
// preserving first-seen order.
func BuildRecommendations(analyses map[model.Modality]model.Analysis) []string {
	var recs []string

	if face, ok := analyses[model.ModalityFace]; ok {
		if hasCondition(face.ObjectsAt("skinConditions"), "condition", "acne") {
			recs = append(recs, recNonComedogenic)
		}
		if stress, ok := face.StringAt("healthIndicators", "stressLevel"); ok && stress == "moderate" {
			recs = append(recs, recStressManagement)
		}
	}

	if eyes, ok := analyses[model.ModalityEyes]; ok {
		if level, ok := eyes.StringAt("fatigueDetection", "level"); ok && level == "low" {
			recs = append(recs, recKeepEyeHabits)
		} else {
			recs = append(recs, recScreenBreaks)
		}
	}

	if tongue, ok := analyses[model.ModalityTongue]; ok {
		if qi, ok := tongue.StringAt("tcmIndicators", "qi"); ok && qi != "balanced" {
			recs = append(recs, recTCMConsult)
		}
	}

	if skin, ok := analyses[model.ModalitySkin]; ok {
		if hasCondition(skin.ObjectsAt("conditions"), "type", "acne") {
			recs = append(recs, recNonComedogenic)
		}
		if level, ok := skin.StringAt("hydration", "level"); ok && level != "adequate" {
			recs = append(recs, recMoisturize)
		}
	}

	if nails, ok := analyses[model.ModalityNails]; ok {
		if protein, ok := nails.StringAt("nutritionalIndicators", "protein"); ok && protein != "adequate" {
			recs = append(recs, recProteinIntake)
		}
	}

	if audio, ok := analyses[model.ModalityAudio]; ok {
		if eff, ok := audio.StringAt("breathingPatterns", "efficiency"); ok && eff != "good" {
			recs = append(recs, recBreathingDrills)
		}
	}

	recs = append(recs, generalRecommendations...)

	return lo.Uniq(recs)
}

func hasCondition(conditions []map[string]any, key, want string) bool {
	for _, c := range conditions {
		if v, ok := c[key].(string); ok && v == want {
			return true
		}
	}
	return false
}
