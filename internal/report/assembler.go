// Package report assembles per-modality analyses, the overall score, and the
// recommendation list into a single timestamped report document. Everything
// in this package is pure: no I/O, no clock access beyond defaulting the
// timestamp.
package report

import (
	"time"

	"github.com/vitalscan/vitalscan-server/pkg/model"
)

// EnsureCaptured returns a copy of analyses in which every captured modality
// has at least an empty (non-nil) analysis entry. This is the single merge
// point that keeps the distinction intact between "sample submitted but no
// readings" (present, possibly empty) and "no sample captured" (absent).
func EnsureCaptured(analyses map[model.Modality]model.Analysis, captured []model.Modality) map[model.Modality]model.Analysis {
	merged := make(map[model.Modality]model.Analysis, len(analyses)+len(captured))
	for m, a := range analyses {
		if a == nil {
			a = model.Analysis{}
		}
		merged[m] = a
	}
	for _, m := range captured {
		if _, ok := merged[m]; !ok {
			merged[m] = model.Analysis{}
		}
	}
	return merged
}

// Assemble builds the final report document. A zero timestamp defaults to
// the current time.
func Assemble(
	analyses map[model.Modality]model.Analysis,
	overall *model.OverallHealth,
	recommendations []string,
	timestamp time.Time,
) model.Report {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	if analyses == nil {
		analyses = map[model.Modality]model.Analysis{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}

	return model.Report{
		GeneratedAt:     timestamp,
		Analyses:        analyses,
		OverallHealth:   overall,
		Recommendations: recommendations,
	}
}
