package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

func TestGateway_Analyze_NoSample(t *testing.T) {
	gateway := NewGateway(nil, zap.NewNop())

	result := gateway.Analyze(context.Background(), model.ModalityFace, nil)

	assert.True(t, result.Success)
	assert.Empty(t, result.Analysis)
	assert.Equal(t, SourceNone, result.Meta.Source)
}

func TestGateway_Analyze_EmptySampleBytes(t *testing.T) {
	gateway := NewGateway(nil, zap.NewNop())

	result := gateway.Analyze(context.Background(), model.ModalityEyes, &Sample{MIMEType: "image/png"})

	assert.True(t, result.Success)
	assert.Empty(t, result.Analysis)
	assert.Equal(t, SourceNone, result.Meta.Source)
}

func TestGateway_Analyze_ProviderNotConfigured(t *testing.T) {
	gateway := NewGateway(nil, zap.NewNop())

	result := gateway.Analyze(context.Background(), model.ModalitySkin, &Sample{
		MIMEType: "image/jpeg",
		Data:     []byte{0xff, 0xd8},
	})

	// Never fabricate readings when the provider is unavailable.
	assert.True(t, result.Success)
	assert.Empty(t, result.Analysis)
	assert.Equal(t, SourceNone, result.Meta.Source)
}

func TestGateway_Analyze_AudioAlwaysEmpty(t *testing.T) {
	gateway := NewGateway(nil, zap.NewNop())

	result := gateway.Analyze(context.Background(), model.ModalityAudio, &Sample{
		MIMEType: "audio/webm",
		Data:     []byte{0x1a, 0x45},
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.Analysis)
	assert.Equal(t, SourceNone, result.Meta.Source)
}

func TestBuildPrompt_ImageModalities(t *testing.T) {
	for _, m := range model.ImageModalities {
		system, instruction, ok := buildPrompt(m)

		assert.True(t, ok, string(m))
		assert.Contains(t, system, string(m))
		assert.Contains(t, system, "STRICTLY in minified JSON")
		assert.Contains(t, instruction, `"`+string(m)+`"`)
	}
}

func TestBuildPrompt_AudioHasNoPrompt(t *testing.T) {
	_, _, ok := buildPrompt(model.ModalityAudio)
	assert.False(t, ok)
}

func TestBuildPrompt_SchemaPreservesContractFields(t *testing.T) {
	_, instruction, _ := buildPrompt(model.ModalityFace)
	assert.Contains(t, instruction, `"healthIndicators"`)
	assert.Contains(t, instruction, `"hydration":"poor|fair|good"`)

	_, instruction, _ = buildPrompt(model.ModalityTongue)
	assert.Contains(t, instruction, `"tcmIndicators"`)
	assert.Contains(t, instruction, `"qi":"deficient|balanced|excess"`)
}

func TestParseAnalysis_UnwrapsModalityKey(t *testing.T) {
	content := `{"face":{"healthIndicators":{"hydration":"good"}}}`

	analysis, err := parseAnalysis(model.ModalityFace, content)

	assert.NoError(t, err)
	hydration, ok := analysis.StringAt("healthIndicators", "hydration")
	assert.True(t, ok)
	assert.Equal(t, "good", hydration)
}

func TestParseAnalysis_AcceptsFlatObject(t *testing.T) {
	content := `{"healthIndicators":{"hydration":"fair"}}`

	analysis, err := parseAnalysis(model.ModalityFace, content)

	assert.NoError(t, err)
	_, ok := analysis.StringAt("healthIndicators", "hydration")
	assert.True(t, ok)
}

func TestParseAnalysis_StripsMarkdownFences(t *testing.T) {
	content := "```json\n{\"eyes\":{\"eyeHealth\":{\"overall\":\"good\"}}}\n```"

	analysis, err := parseAnalysis(model.ModalityEyes, content)

	assert.NoError(t, err)
	overall, ok := analysis.StringAt("eyeHealth", "overall")
	assert.True(t, ok)
	assert.Equal(t, "good", overall)
}

func TestParseAnalysis_MalformedJSON(t *testing.T) {
	_, err := parseAnalysis(model.ModalityFace, "the image shows a healthy face")

	assert.Error(t, err)
}

func TestDataURL_EncodesSample(t *testing.T) {
	url := dataURL(&Sample{MIMEType: "image/png", Data: []byte("abc")})

	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	// Missing MIME type falls back to JPEG.
	url = dataURL(&Sample{Data: []byte("abc")})
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}

func TestParseModality_FixedSet(t *testing.T) {
	for _, name := range []string{"face", "eyes", "tongue", "skin", "nails", "audio"} {
		_, ok := model.ParseModality(name)
		assert.True(t, ok, name)
	}

	_, ok := model.ParseModality("hair")
	assert.False(t, ok)
}
