// Package service contains the business logic layer: orchestrating modality
// analysis and assembling, rendering, and archiving health reports.
package service

import (
	"context"
	"sync"

	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

// AnalysisService fans submitted samples out to the analysis gateway, one
// concurrent call per modality.
type AnalysisService struct {
	gateway *analyzer.Gateway
	logger  *zap.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(gateway *analyzer.Gateway, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		gateway: gateway,
		logger:  logger,
	}
}

// Analyze runs a single modality's sample through the gateway.
func (s *AnalysisService) Analyze(ctx context.Context, modality model.Modality, sample *analyzer.Sample) analyzer.Result {
	return s.gateway.Analyze(ctx, modality, sample)
}

// AnalyzeAll analyzes every submitted sample concurrently. Every key in
// samples is present in the returned map; modalities that fail still carry
// an empty result rather than going missing.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, samples map[model.Modality]*analyzer.Sample) map[model.Modality]analyzer.Result {
	results := make(map[model.Modality]analyzer.Result, len(samples))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for modality, sample := range samples {
		wg.Add(1)
		go func(modality model.Modality, sample *analyzer.Sample) {
			defer wg.Done()
			result := s.gateway.Analyze(ctx, modality, sample)
			mu.Lock()
			results[modality] = result
			mu.Unlock()
		}(modality, sample)
	}
	wg.Wait()

	s.logger.Info("batch analysis complete",
		zap.Int("modalities", len(results)),
	)
	return results
}
