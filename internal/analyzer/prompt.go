package analyzer

import (
	"fmt"

	"github.com/vitalscan/vitalscan-server/pkg/model"
)

// Per-modality output schemas sent to the vision model. Field names and
// enumerations are part of the external response contract and must not be
// changed.
var modalitySchemas = map[model.Modality]string{
	model.ModalityFace: `{"face":{` +
		`"age":{"value":"number","confidence":"0..1"},` +
		`"gender":{"value":"male|female|unknown","confidence":"0..1"},` +
		`"skinConditions":[{"condition":"string","severity":"mild|moderate|severe","confidence":"0..1"}],` +
		`"facialFeatures":{"symmetry":"0..1","skinTone":"string","complexion":"string"},` +
		`"healthIndicators":{"hydration":"poor|fair|good","stressLevel":"low|moderate|high","sleepQuality":"poor|adequate|good"}}}`,

	model.ModalityEyes: `{"eyes":{` +
		`"eyeHealth":{"overall":"poor|fair|good","redness":"none|minimal|moderate|high","dryness":"none|mild|moderate|high","irritation":"none|mild|moderate|high"},` +
		`"visionIndicators":{"pupilSize":"small|normal|large","eyeAlignment":"poor|fair|good","blinkRate":"low|normal|high"},` +
		`"fatigueDetection":{"level":"low|moderate|high","eyeStrain":"none|mild|moderate|high","darkCircles":"none|present|pronounced"},` +
		`"recommendations":["string"]}}`,

	model.ModalityTongue: `{"tongue":{` +
		`"tongueColor":{"primary":"string","secondary":"string","interpretation":"string"},` +
		`"coating":{"thickness":"none|thin|thick","color":"string","distribution":"even|patchy","interpretation":"string"},` +
		`"shape":{"size":"small|normal|large","edges":"smooth|scalloped|irregular","cracks":"none|few|many","interpretation":"string"},` +
		`"tcmIndicators":{"qi":"deficient|balanced|excess","blood":"deficient|adequate|stagnant","yin":"deficient|sufficient|excess","yang":"low|moderate|excess"},` +
		`"healthPatterns":{"digestive":"poor|fair|good","immune":"weak|moderate|strong","stress":"low|moderate|high"}}}`,

	model.ModalitySkin: `{"skin":{` +
		`"conditions":[{"type":"string","severity":"mild|moderate|severe","confidence":"0..1"}],` +
		`"texture":{"smoothness":"poor|fair|good","elasticity":"low|normal|high","oiliness":"dry|balanced|oily"},` +
		`"pigmentation":{"evenness":"poor|fair|good","spots":"none|minimal|moderate|pronounced","tone":"string"},` +
		`"hydration":{"level":"low|adequate|high","moisture":"low|balanced|high","dryness":"none|mild|moderate|severe"},` +
		`"sensitivity":{"level":"low|moderate|high","redness":"none|minimal|moderate|high","irritation":"none|mild|moderate|high"},` +
		`"recommendations":["string"]}}`,

	model.ModalityNails: `{"nails":{` +
		`"nailHealth":{"strength":"poor|fair|good","growth":"slow|normal|fast","color":"string","texture":"smooth|ridges|brittle"},` +
		`"nutritionalIndicators":{"protein":"low|adequate|high","vitamins":"low|sufficient|high","minerals":"low|balanced|high","hydration":"poor|fair|good"},` +
		`"growthPatterns":{"rate":"slow|normal|fast","ridges":"none|minimal|pronounced","brittleness":"none|mild|moderate|high"},` +
		`"abnormalities":{"spots":"none|few|many","discoloration":"none|mild|pronounced","deformities":"none|mild|pronounced"},` +
		`"recommendations":["string"]}}`,
}

// buildPrompt renders the system prompt and the schema instruction for one
// modality. Modalities without a schema (audio) have no vision prompt.
func buildPrompt(modality model.Modality) (system, instruction string, ok bool) {
	schema, ok := modalitySchemas[modality]
	if !ok {
		return "", "", false
	}

	system = fmt.Sprintf(
		"You are a health assistant. Analyze the provided image for %s health signals. "+
			"Respond STRICTLY in minified JSON only, no backticks, no prose. "+
			"Use the exact schema requested. Ensure the JSON matches expected keys.",
		modality,
	)
	instruction = fmt.Sprintf(
		"Return ONLY JSON with this top-level key structure for %s: %s.",
		modality, schema,
	)

	return system, instruction, true
}
