package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalscan/vitalscan-server/pkg/model"
)

func TestExtractMetrics_FaceHealthIndicators(t *testing.T) {
	// Arrange
	analysis := model.Analysis{
		"healthIndicators": map[string]any{
			"hydration":    "good",
			"stressLevel":  "moderate",
			"sleepQuality": "adequate",
		},
	}

	// Act
	metrics := ExtractMetrics(model.ModalityFace, analysis)

	// Assert
	assert.Len(t, metrics, 3)

	assert.Equal(t, "Hydration", metrics[0].Label)
	assert.Equal(t, 85.0, metrics[0].PatientPercent)
	assert.Equal(t, 85.0, metrics[0].NormalPercent)

	assert.Equal(t, "Stress Level", metrics[1].Label)
	assert.Equal(t, 60.0, metrics[1].PatientPercent)
	assert.Equal(t, 85.0, metrics[1].NormalPercent)

	assert.Equal(t, "Sleep Quality", metrics[2].Label)
	assert.Equal(t, 70.0, metrics[2].PatientPercent)
	assert.Equal(t, 85.0, metrics[2].NormalPercent)
}

func TestExtractMetrics_AudioHeartRate(t *testing.T) {
	// Arrange
	analysis := model.Analysis{
		"heartRate": map[string]any{"bpm": 75.0},
	}

	// Act
	metrics := ExtractMetrics(model.ModalityAudio, analysis)

	// Assert: ((75-40)/80)*100 = 43.75, rounded to 44; patient sits exactly
	// on the baseline.
	assert.Len(t, metrics, 1)
	assert.Equal(t, "Heart Rate", metrics[0].Label)
	assert.Equal(t, "75 bpm", metrics[0].PatientValue)
	assert.Equal(t, 44.0, metrics[0].PatientPercent)
	assert.Equal(t, 44.0, metrics[0].NormalPercent)
}

func TestExtractMetrics_HeartRateOutOfRangeClamped(t *testing.T) {
	low := ExtractMetrics(model.ModalityAudio, model.Analysis{
		"heartRate": map[string]any{"bpm": 10.0},
	})
	high := ExtractMetrics(model.ModalityAudio, model.Analysis{
		"heartRate": map[string]any{"bpm": 250.0},
	})

	assert.Equal(t, 0.0, low[0].PatientPercent)
	assert.Equal(t, 100.0, high[0].PatientPercent)
}

func TestExtractMetrics_UnrecognizedValueOmitted(t *testing.T) {
	// An out-of-schema qualitative value must drop the metric entirely
	// rather than report a misleading zero.
	analysis := model.Analysis{
		"healthIndicators": map[string]any{
			"hydration":   "soggy",
			"stressLevel": "low",
		},
	}

	metrics := ExtractMetrics(model.ModalityFace, analysis)

	assert.Len(t, metrics, 1)
	assert.Equal(t, "Stress Level", metrics[0].Label)
}

func TestExtractMetrics_MissingIndicatorOmitted(t *testing.T) {
	analysis := model.Analysis{
		"texture": map[string]any{"elasticity": "normal"},
	}

	metrics := ExtractMetrics(model.ModalitySkin, analysis)

	assert.Len(t, metrics, 1)
	assert.Equal(t, "Elasticity", metrics[0].Label)
}

func TestExtractMetrics_EmptyAnalysis(t *testing.T) {
	assert.Empty(t, ExtractMetrics(model.ModalityFace, model.Analysis{}))
	assert.Empty(t, ExtractMetrics(model.ModalityFace, nil))
}
