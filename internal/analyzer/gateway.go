// Package analyzer is the gateway between captured samples and the external
// vision model. It forwards one sample with a modality-specific schema
// prompt, normalizes the returned JSON, and falls back to an explicitly
// empty result on any failure. The gateway never substitutes synthetic
// values for a real failure: fabricated readings would corrupt the scoring
// downstream.
package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

// Source records where an analysis came from.
type Source string

const (
	SourceOpenAI Source = "openai"
	SourceNone   Source = "none"
	SourceError  Source = "error"
)

// Meta carries provenance alongside an analysis.
type Meta struct {
	Source Source `json:"source"`
}

// Result is the gateway's response envelope. Success stays true even for
// empty results so callers can aggregate best-effort: the Meta source tells
// them whether readings are genuinely absent or an attempt failed.
type Result struct {
	Success  bool           `json:"success"`
	Analysis model.Analysis `json:"analysis"`
	Meta     Meta           `json:"meta"`
}

// Sample is one captured image or audio clip.
type Sample struct {
	MIMEType string
	Data     []byte
}

// Gateway analyzes samples through the vision provider. The client may be
// nil when no provider is configured; every call then returns an empty
// result.
type Gateway struct {
	ai     *OpenAIClient
	logger *zap.Logger
}

// NewGateway creates a Gateway. ai may be nil.
func NewGateway(ai *OpenAIClient, logger *zap.Logger) *Gateway {
	return &Gateway{
		ai:     ai,
		logger: logger,
	}
}

// Analyze submits one sample for the given modality and returns the
// normalized analysis. No sample, no configured provider, or an audio
// sample (no audio model is wired yet) yields an empty source:none result;
// provider or parse failures yield an empty source:error result.
func (g *Gateway) Analyze(ctx context.Context, modality model.Modality, sample *Sample) Result {
	if sample == nil || len(sample.Data) == 0 {
		return emptyResult(SourceNone)
	}

	if g.ai == nil {
		g.logger.Debug("vision provider not configured, returning empty analysis",
			zap.String("modality", string(modality)),
		)
		return emptyResult(SourceNone)
	}

	system, instruction, ok := buildPrompt(modality)
	if !ok {
		return emptyResult(SourceNone)
	}

	content, err := g.ai.CompleteVision(ctx, system, instruction, dataURL(sample))
	if err != nil {
		g.logger.Error("vision analysis failed",
			zap.String("modality", string(modality)),
			zap.Error(err),
		)
		return emptyResult(SourceError)
	}

	analysis, err := parseAnalysis(modality, content)
	if err != nil {
		g.logger.Error("failed to parse vision response",
			zap.String("modality", string(modality)),
			zap.Error(err),
		)
		return emptyResult(SourceError)
	}

	g.logger.Info("modality analyzed",
		zap.String("modality", string(modality)),
		zap.Int("fields", len(analysis)),
	)

	return Result{
		Success:  true,
		Analysis: analysis,
		Meta:     Meta{Source: SourceOpenAI},
	}
}

func emptyResult(source Source) Result {
	return Result{
		Success:  true,
		Analysis: model.Analysis{},
		Meta:     Meta{Source: source},
	}
}

// parseAnalysis normalizes the raw completion content into an Analysis. The
// model occasionally wraps its JSON in markdown fences despite instructions,
// and may or may not nest the payload under the modality key.
func parseAnalysis(modality model.Modality, content string) (model.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if nested, ok := parsed[string(modality)].(map[string]any); ok {
		return model.Analysis(nested), nil
	}

	return model.Analysis(parsed), nil
}

func dataURL(sample *Sample) string {
	mime := sample.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(sample.Data))
}
