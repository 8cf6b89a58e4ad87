// Package pdf renders a health report as a paginated A4 document: header
// band, KPI summary cards, overall-health block, per-modality comparison
// cards, recommendations, and footer. Layout is a single top-to-bottom pass
// with an explicit cursor; every section reserves its height up front and
// starts a new page when it would cross the bottom margin.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vitalscan/vitalscan-server/internal/scoring"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 15.0
	bottomMargin = 20.0
	contentWidth = pageWidth - 2*margin
)

type rgb struct{ r, g, b int }

var (
	brandColor  = rgb{102, 126, 234}
	accentAmber = rgb{245, 158, 11}
	textDark    = rgb{17, 24, 39}
	textBody    = rgb{55, 65, 81}
	textMuted   = rgb{107, 114, 128}
	cardBorder  = rgb{229, 231, 235}
	trackColor  = rgb{241, 245, 249}
	barColor    = rgb{99, 102, 241}
	tickColor   = rgb{16, 185, 129}
)

var sectionColors = map[model.Modality]rgb{
	model.ModalityFace:   {59, 130, 246},
	model.ModalityEyes:   {16, 185, 129},
	model.ModalityTongue: {245, 158, 11},
	model.ModalitySkin:   {6, 182, 212},
	model.ModalityNails:  {139, 92, 246},
	model.ModalityAudio:  {239, 68, 68},
}

var levelLabels = map[string]string{
	model.LevelExcellent:      "Excellent",
	model.LevelGood:           "Good",
	model.LevelFair:           "Fair",
	model.LevelNeedsAttention: "Needs Attention",
}

// Generator renders health reports as PDF documents. It holds no per-render
// state: every Generate call builds its own document and layout cursor, so a
// single Generator is safe for concurrent report requests.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// ReportID derives the printable report identifier from the generation
// timestamp as an uppercase base-36 encoding of its millisecond value.
func ReportID(t time.Time) string {
	return strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

// Generate renders the report into PDF bytes. Any drawing error aborts the
// render; no partial document is returned.
func (g *Generator) Generate(report *model.Report) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.Int("modalities", len(report.Analyses)),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	l := &layout{doc: doc, y: margin}

	l.drawHeader(report.GeneratedAt)
	l.drawKPIs(report.Analyses)
	if report.OverallHealth != nil {
		l.drawOverallHealth(report.OverallHealth)
	}
	for _, modality := range model.Modalities {
		analysis, ok := report.Analyses[modality]
		if !ok {
			continue
		}
		l.drawModalityCard(modality, analysis)
	}
	if len(report.Recommendations) > 0 {
		l.drawRecommendations(report.Recommendations)
	}
	l.drawFooter(report.GeneratedAt)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		g.logger.Error("failed to render PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// layout is the single-pass cursor over the document. Not safe for shared
// use; each render owns its own.
type layout struct {
	doc *gofpdf.Fpdf
	y   float64
}

// ensure reserves height for the next block, breaking to a new page when the
// block would cross the bottom margin.
func (l *layout) ensure(height float64) {
	if l.y+height > pageHeight-bottomMargin {
		l.doc.AddPage()
		l.y = margin
	}
}

func (l *layout) text(x, baseline, size float64, style string, c rgb, s string) {
	l.doc.SetFont("Arial", style, size)
	l.doc.SetTextColor(c.r, c.g, c.b)
	l.doc.Text(x, baseline, s)
}

func (l *layout) textRight(rightEdge, baseline, size float64, style string, c rgb, s string) {
	l.doc.SetFont("Arial", style, size)
	l.doc.SetTextColor(c.r, c.g, c.b)
	l.doc.Text(rightEdge-l.doc.GetStringWidth(s), baseline, s)
}

func (l *layout) card(x, y, w, h float64) {
	l.doc.SetFillColor(255, 255, 255)
	l.doc.SetDrawColor(cardBorder.r, cardBorder.g, cardBorder.b)
	l.doc.SetLineWidth(0.3)
	l.doc.RoundedRect(x, y, w, h, 2.5, "1234", "FD")
}

func (l *layout) drawHeader(generatedAt time.Time) {
	const bandHeight = 28.0

	l.doc.SetFillColor(brandColor.r, brandColor.g, brandColor.b)
	l.doc.RoundedRect(margin, l.y, contentWidth, bandHeight, 3, "1234", "F")

	white := rgb{255, 255, 255}
	l.text(margin+7, l.y+12, 19, "B", white, "Health Analysis Report")
	l.text(margin+7, l.y+20, 10, "", white, "AI-Powered Medical Insights")

	l.y += bandHeight + 6
	l.textRight(pageWidth-margin, l.y, 8, "", textMuted,
		fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")))
	l.y += 6
}

func (l *layout) drawKPIs(analyses map[model.Modality]model.Analysis) {
	const (
		cardHeight = 22.0
		gap        = 4.0
	)
	cardWidth := (contentWidth - 3*gap) / 4

	imagesAnalyzed := 0
	for _, m := range model.ImageModalities {
		if _, ok := analyses[m]; ok {
			imagesAnalyzed++
		}
	}
	audioSamples := 0
	if _, ok := analyses[model.ModalityAudio]; ok {
		audioSamples = 1
	}

	kpis := []struct {
		label string
		value string
		color rgb
	}{
		{"Images Analyzed", strconv.Itoa(imagesAnalyzed), rgb{59, 130, 246}},
		{"Audio Samples", strconv.Itoa(audioSamples), rgb{16, 185, 129}},
		{"AI Models Used", "5", rgb{139, 92, 246}},
		{"Avg Accuracy", "85%", accentAmber},
	}

	l.ensure(cardHeight + 4)
	x := margin
	for _, kpi := range kpis {
		l.card(x, l.y, cardWidth, cardHeight)

		l.doc.SetFillColor(kpi.color.r, kpi.color.g, kpi.color.b)
		l.doc.Circle(x+6.5, l.y+6.5, 3, "F")

		l.text(x+4, l.y+14.5, 6.5, "", textMuted, kpi.label)
		l.text(x+4, l.y+19.5, 11, "B", textDark, kpi.value)

		x += cardWidth + gap
	}
	l.y += cardHeight + 6
}

func (l *layout) drawOverallHealth(overall *model.OverallHealth) {
	l.ensure(20)

	label, ok := levelLabels[overall.Level]
	if !ok {
		label = overall.Level
	}

	l.text(margin, l.y+5, 13, "B", textDark, "Overall Health")
	l.text(margin, l.y+11.5, 10, "", textBody,
		fmt.Sprintf("Overall score: %d / 100", overall.Score))
	l.text(margin, l.y+17, 10, "", textBody, fmt.Sprintf("Level: %s", label))
	l.y += 22
}

func (l *layout) drawModalityCard(modality model.Modality, analysis model.Analysis) {
	const (
		titleHeight = 14.0
		rowHeight   = 16.0
		labelWidth  = 52.0
	)

	metrics := scoring.ExtractMetrics(modality, analysis)

	cardHeight := titleHeight + 4
	if len(metrics) > 0 {
		cardHeight = titleHeight + float64(len(metrics))*rowHeight + 2
	} else {
		cardHeight = titleHeight + 9
	}

	l.ensure(cardHeight + 4)
	cardY := l.y
	l.card(margin, cardY, contentWidth, cardHeight)

	color := sectionColors[modality]
	title := strings.ToUpper(string(modality)[:1]) + string(modality)[1:]
	l.text(margin+6, cardY+9.5, 12, "B", color, fmt.Sprintf("%s Analysis", title))

	innerX := margin + 6
	innerWidth := contentWidth - 12
	barX := innerX + labelWidth
	barWidth := innerWidth - labelWidth

	if len(metrics) == 0 {
		l.text(innerX, cardY+titleHeight+5, 8, "I", textMuted,
			"No structured readings available for this sample.")
		l.y = cardY + cardHeight + 4
		return
	}

	rowY := cardY + titleHeight + 2
	for _, metric := range metrics {
		l.text(innerX, rowY+4, 8, "", textBody, metric.Label)
		l.drawCompareBar(barX, rowY+1.5, barWidth, 3.5, metric.PatientPercent, metric.NormalPercent)
		l.text(barX, rowY+10, 7, "", textMuted, fmt.Sprintf("You: %s", metric.PatientValue))
		l.textRight(barX+barWidth, rowY+10, 7, "", textMuted,
			fmt.Sprintf("Normal: %s", metric.NormalValue))
		rowY += rowHeight
	}

	l.y = cardY + cardHeight + 4
}

// drawCompareBar renders the patient-vs-normal comparison: a rounded track,
// a fill proportional to the patient percent, and a tick at the normal
// baseline. Fill width is clamped to [0, trackWidth] whatever the inputs.
func (l *layout) drawCompareBar(x, y, w, h, percent, normalPercent float64) {
	l.doc.SetFillColor(trackColor.r, trackColor.g, trackColor.b)
	l.doc.RoundedRect(x, y, w, h, h/2, "1234", "F")

	fill := barFillWidth(percent, w)
	if fill > 0 {
		l.doc.SetFillColor(barColor.r, barColor.g, barColor.b)
		l.doc.RoundedRect(x, y, fill, h, h/2, "1234", "F")
	}

	tickX := x + barFillWidth(normalPercent, w)
	l.doc.SetDrawColor(tickColor.r, tickColor.g, tickColor.b)
	l.doc.SetLineWidth(0.6)
	l.doc.Line(tickX, y-1.2, tickX, y+h+1.2)
}

// barFillWidth converts a percent to a fill width bounded by the track.
func barFillWidth(percent, trackWidth float64) float64 {
	return scoring.ClampPercent(percent) / 100 * trackWidth
}

func (l *layout) drawRecommendations(recommendations []string) {
	const (
		titleHeight = 13.0
		lineHeight  = 6.0
	)
	cardHeight := titleHeight + float64(len(recommendations))*lineHeight + 3

	l.ensure(cardHeight + 4)
	cardY := l.y
	l.card(margin, cardY, contentWidth, cardHeight)

	l.text(margin+6, cardY+9, 12, "B", accentAmber, "AI Health Recommendations")

	lineY := cardY + titleHeight + 3
	for i, rec := range recommendations {
		l.text(margin+6, lineY, 9, "", textBody, fmt.Sprintf("%d. %s", i+1, rec))
		lineY += lineHeight
	}

	l.y = cardY + cardHeight + 4
}

func (l *layout) drawFooter(generatedAt time.Time) {
	l.ensure(18)
	l.y += 4

	l.text(margin, l.y, 7, "", textMuted, "Generated by AI Health Analysis System")
	l.text(margin, l.y+4.5, 7, "", textMuted, fmt.Sprintf("Report ID: %s", ReportID(generatedAt)))
	l.text(margin, l.y+9, 7, "", textMuted,
		"This report is for informational purposes only. Consult healthcare professionals for medical advice.")
	l.y += 13
}
