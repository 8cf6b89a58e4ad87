package service

import (
	"context"
	"errors"
	"time"

	"github.com/vitalscan/vitalscan-server/internal/pdf"
	"github.com/vitalscan/vitalscan-server/internal/report"
	"github.com/vitalscan/vitalscan-server/internal/scoring"
	"github.com/vitalscan/vitalscan-server/internal/storage"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

// ErrArchiveNotConfigured is returned when archived-report retrieval is
// requested without blob storage configured.
var ErrArchiveNotConfigured = errors.New("report archive is not configured")

// ReportService builds reports from analysis results and renders them to
// PDF. The archive is optional; when absent, rendering still succeeds and
// only retrieval by ID is unavailable.
type ReportService struct {
	generator *pdf.Generator
	archive   *storage.ReportArchive
	logger    *zap.Logger
}

// NewReportService creates a new ReportService. archive may be nil.
func NewReportService(generator *pdf.Generator, archive *storage.ReportArchive, logger *zap.Logger) *ReportService {
	return &ReportService{
		generator: generator,
		archive:   archive,
		logger:    logger,
	}
}

// BuildReport derives the overall score and recommendations from the
// analysis results and assembles the report. captured lists the modalities a
// sample was submitted for, so they appear in the report even when analysis
// returned nothing.
func (s *ReportService) BuildReport(analyses map[model.Modality]model.Analysis, captured []model.Modality, timestamp time.Time) *model.Report {
	merged := report.EnsureCaptured(analyses, captured)
	overall := scoring.ScoreOverall(merged)
	recommendations := scoring.BuildRecommendations(merged)
	assembled := report.Assemble(merged, &overall, recommendations, timestamp)
	return &assembled
}

// RenderPDF renders the report and returns the bytes together with the
// report ID. When an archive is configured the PDF is stored under that ID;
// archive failures are logged but do not fail the render.
func (s *ReportService) RenderPDF(ctx context.Context, rep *model.Report) ([]byte, string, error) {
	data, err := s.generator.Generate(rep)
	if err != nil {
		return nil, "", err
	}

	reportID := pdf.ReportID(rep.GeneratedAt)

	if s.archive != nil {
		if _, err := s.archive.Put(ctx, reportID, data); err != nil {
			s.logger.Warn("failed to archive report PDF",
				zap.String("report_id", reportID),
				zap.Error(err),
			)
		}
	}

	return data, reportID, nil
}

// ArchivedPDF retrieves a previously archived report PDF by its ID.
func (s *ReportService) ArchivedPDF(ctx context.Context, reportID string) ([]byte, error) {
	if s.archive == nil {
		return nil, ErrArchiveNotConfigured
	}
	return s.archive.Get(ctx, reportID)
}
