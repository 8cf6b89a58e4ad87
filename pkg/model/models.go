package model

import "time"

// Modality identifies one capture channel analyzed independently.
type Modality string

const (
	ModalityFace   Modality = "face"
	ModalityEyes   Modality = "eyes"
	ModalityTongue Modality = "tongue"
	ModalitySkin   Modality = "skin"
	ModalityNails  Modality = "nails"
	ModalityAudio  Modality = "audio"
)

// Modalities lists all capture channels in report rendering order.
var Modalities = []Modality{
	ModalityFace,
	ModalityEyes,
	ModalityTongue,
	ModalitySkin,
	ModalityNails,
	ModalityAudio,
}

// ImageModalities lists the channels captured as still images.
var ImageModalities = []Modality{
	ModalityFace,
	ModalityEyes,
	ModalityTongue,
	ModalitySkin,
	ModalityNails,
}

// ParseModality validates a modality name against the fixed set.
func ParseModality(s string) (Modality, bool) {
	for _, m := range Modalities {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Analysis is one modality's raw analysis object as returned by the vision
// provider. The schemas differ per modality and fields may be missing, so it
// stays a loosely-typed map; the lookup helpers below never panic on absent
// or mistyped fields. An empty-but-present Analysis means "a sample was
// provided but no readings came back", which is distinct from the modality
// key being absent from a report.
type Analysis map[string]any

// StringAt walks nested objects and returns the string at path.
func (a Analysis) StringAt(path ...string) (string, bool) {
	v, ok := a.valueAt(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// NumberAt walks nested objects and returns the number at path.
func (a Analysis) NumberAt(path ...string) (float64, bool) {
	v, ok := a.valueAt(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ObjectsAt returns the list of objects at path, e.g. skin conditions.
func (a Analysis) ObjectsAt(path ...string) []map[string]any {
	v, ok := a.valueAt(path...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

func (a Analysis) valueAt(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = map[string]any(a)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// Metric is one derived comparison row: the patient's reading against the
// normal-range baseline. Percents are always clamped to [0,100].
type Metric struct {
	Label          string  `json:"label"`
	PatientValue   string  `json:"patientValue"`
	NormalValue    string  `json:"normalValue"`
	PatientPercent float64 `json:"patientPercent"`
	NormalPercent  float64 `json:"normalPercent"`
}

// Health levels derived from the overall score.
const (
	LevelExcellent      = "excellent"
	LevelGood           = "good"
	LevelFair           = "fair"
	LevelNeedsAttention = "needs_attention"
)

// OverallHealth aggregates the per-modality sub-scores. Factors counts the
// contributing readings; Factors == 0 means "insufficient data", not a
// literal zero-health score.
type OverallHealth struct {
	Score   int    `json:"score"`
	Level   string `json:"level"`
	Factors int    `json:"factors"`
}

// Report is the aggregate output of one analysis run. Immutable after
// assembly.
type Report struct {
	GeneratedAt     time.Time             `json:"timestamp"`
	Analyses        map[Modality]Analysis `json:"analyses"`
	OverallHealth   *OverallHealth        `json:"overallHealth,omitempty"`
	Recommendations []string              `json:"recommendations"`
}

// PersonalInfo holds the user-entered profile basics.
type PersonalInfo struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Age    *int     `json:"age"`
	Gender *string  `json:"gender"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
	Avatar string   `json:"avatar"`
}

// HealthEntry is one completed analysis run appended to a user's history.
type HealthEntry struct {
	ID              string                `json:"id"`
	Timestamp       time.Time             `json:"timestamp"`
	HealthData      map[string]any        `json:"healthData"`
	AnalysisResults map[Modality]Analysis `json:"analysisResults"`
	Type            string                `json:"type"`
}

// CompletedTask records one gamification task completion.
type CompletedTask struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	XP        int       `json:"xp"`
}

// Achievement is an unlocked milestone, e.g. a level-up.
type Achievement struct {
	Type        string    `json:"type"`
	Level       int       `json:"level,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// Gamification holds the engagement counters on a user profile.
type Gamification struct {
	Level          int             `json:"level"`
	XP             int             `json:"xp"`
	Streak         int             `json:"streak"`
	Badges         []string        `json:"badges"`
	CompletedTasks []CompletedTask `json:"completedTasks"`
}

// UserProfile is the stored record for one registered user.
type UserProfile struct {
	ID               string         `json:"id"`
	PersonalInfo     PersonalInfo   `json:"personalInfo"`
	HealthMetrics    map[string]any `json:"healthMetrics"`
	Goals            []string       `json:"goals"`
	Preferences      map[string]any `json:"preferences"`
	RegistrationDate time.Time      `json:"registrationDate"`
	LastLogin        time.Time      `json:"lastLogin"`
	HealthHistory    []HealthEntry  `json:"healthHistory"`
	Achievements     []Achievement  `json:"achievements"`
	Gamification     Gamification   `json:"gamificationData"`
}

// TrendPoint is one dated value in a history trend series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trends aggregates qualitative history readings into plottable series.
type Trends struct {
	StressLevel   []TrendPoint `json:"stressLevel"`
	SleepQuality  []TrendPoint `json:"sleepQuality"`
	Hydration     []TrendPoint `json:"hydration"`
	OverallHealth []TrendPoint `json:"overallHealth"`
}
