// Package repository persists user profiles in an embedded Badger store.
// Each profile is a single JSON value under a "user:<id>" key; profile
// mutations rewrite the whole value inside one transaction.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vitalscan/vitalscan-server/internal/scoring"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when no profile exists for the requested ID.
var ErrUserNotFound = errors.New("user not found")

const (
	userKeyPrefix = "user:"

	healthEntryXP = 10
	xpPerLevel    = 100

	defaultAvatar = "default"
)

// UserStore is the Badger-backed user profile repository.
type UserStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewUserStore creates a new UserStore over an open Badger database.
func NewUserStore(db *badger.DB, logger *zap.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

// Register creates a new profile with default gamification state and
// persists it.
func (s *UserStore) Register(info model.PersonalInfo) (*model.UserProfile, error) {
	if info.Avatar == "" {
		info.Avatar = defaultAvatar
	}

	now := time.Now().UTC()
	profile := &model.UserProfile{
		ID:               uuid.NewString(),
		PersonalInfo:     info,
		HealthMetrics:    map[string]any{},
		Goals:            []string{},
		Preferences:      map[string]any{},
		RegistrationDate: now,
		LastLogin:        now,
		HealthHistory:    []model.HealthEntry{},
		Achievements:     []model.Achievement{},
		Gamification: model.Gamification{
			Level:          1,
			XP:             0,
			Streak:         0,
			Badges:         []string{"welcome"},
			CompletedTasks: []model.CompletedTask{},
		},
	}

	if err := s.save(profile); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", profile.ID),
	)
	return profile, nil
}

// Get loads a profile and touches its last-login timestamp.
func (s *UserStore) Get(id string) (*model.UserProfile, error) {
	profile, err := s.load(id)
	if err != nil {
		return nil, err
	}

	profile.LastLogin = time.Now().UTC()
	if err := s.save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update merges the given profile fields into the stored record. Zero-value
// sections are left untouched.
func (s *UserStore) Update(id string, info *model.PersonalInfo, goals []string, preferences map[string]any) (*model.UserProfile, error) {
	profile, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if info != nil {
		if info.Avatar == "" {
			info.Avatar = profile.PersonalInfo.Avatar
		}
		profile.PersonalInfo = *info
	}
	if goals != nil {
		profile.Goals = goals
	}
	if preferences != nil {
		profile.Preferences = preferences
	}

	if err := s.save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// AppendHealthEntry records one completed analysis run on the profile,
// awards XP, and unlocks a level-up achievement when the XP total crosses a
// level boundary. Returns the updated profile and the stored entry.
func (s *UserStore) AppendHealthEntry(id string, healthData map[string]any, results map[model.Modality]model.Analysis, entryType string) (*model.UserProfile, *model.HealthEntry, error) {
	profile, err := s.load(id)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entry := model.HealthEntry{
		ID:              uuid.NewString(),
		Timestamp:       now,
		HealthData:      healthData,
		AnalysisResults: results,
		Type:            entryType,
	}
	profile.HealthHistory = append(profile.HealthHistory, entry)

	profile.Gamification.XP += healthEntryXP
	profile.Gamification.CompletedTasks = append(profile.Gamification.CompletedTasks, model.CompletedTask{
		Type:      entryType,
		Timestamp: now,
		XP:        healthEntryXP,
	})

	newLevel := profile.Gamification.XP/xpPerLevel + 1
	if newLevel > profile.Gamification.Level {
		profile.Gamification.Level = newLevel
		profile.Achievements = append(profile.Achievements, model.Achievement{
			Type:        "level_up",
			Level:       newLevel,
			Timestamp:   now,
			Title:       fmt.Sprintf("Level %d Achieved!", newLevel),
			Description: fmt.Sprintf("Reached level %d by tracking your health", newLevel),
		})
		s.logger.Info("user leveled up",
			zap.String("user_id", id),
			zap.Int("level", newLevel),
		)
	}

	if err := s.save(profile); err != nil {
		return nil, nil, err
	}
	return profile, &entry, nil
}

// History returns the health entries from the trailing window of days,
// oldest first, together with the qualitative trend series derived from
// their analysis results.
func (s *UserStore) History(id string, days int) ([]model.HealthEntry, model.Trends, error) {
	profile, err := s.load(id)
	if err != nil {
		return nil, model.Trends{}, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	entries := make([]model.HealthEntry, 0, len(profile.HealthHistory))
	for _, entry := range profile.HealthHistory {
		if entry.Timestamp.After(cutoff) {
			entries = append(entries, entry)
		}
	}

	return entries, buildTrends(entries), nil
}

var (
	stressValues = map[string]float64{
		"low":      1,
		"moderate": 2,
		"high":     3,
	}
	sleepValues = map[string]float64{
		"poor":     1,
		"adequate": 2,
		"good":     3,
	}
	hydrationValues = map[string]float64{
		"poor": 1,
		"fair": 2,
		"good": 3,
	}
)

// buildTrends maps each entry's face readings onto numeric scales and scores
// its full analysis set for the overall series. Entries missing a reading
// contribute no point to that series.
func buildTrends(entries []model.HealthEntry) model.Trends {
	trends := model.Trends{
		StressLevel:   []model.TrendPoint{},
		SleepQuality:  []model.TrendPoint{},
		Hydration:     []model.TrendPoint{},
		OverallHealth: []model.TrendPoint{},
	}

	for _, entry := range entries {
		date := entry.Timestamp.Format("2006-01-02")
		face := entry.AnalysisResults[model.ModalityFace]

		if v, ok := face.StringAt("healthIndicators", "stressLevel"); ok {
			if value, known := stressValues[v]; known {
				trends.StressLevel = append(trends.StressLevel, model.TrendPoint{Date: date, Value: value})
			}
		}
		if v, ok := face.StringAt("healthIndicators", "sleepQuality"); ok {
			if value, known := sleepValues[v]; known {
				trends.SleepQuality = append(trends.SleepQuality, model.TrendPoint{Date: date, Value: value})
			}
		}
		if v, ok := face.StringAt("healthIndicators", "hydration"); ok {
			if value, known := hydrationValues[v]; known {
				trends.Hydration = append(trends.Hydration, model.TrendPoint{Date: date, Value: value})
			}
		}

		if overall := scoring.ScoreOverall(entry.AnalysisResults); overall.Factors > 0 {
			trends.OverallHealth = append(trends.OverallHealth, model.TrendPoint{
				Date:  date,
				Value: float64(overall.Score),
			})
		}
	}

	return trends
}

func (s *UserStore) load(id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &profile, nil
}

func (s *UserStore) save(profile *model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", profile.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(profile.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", profile.ID, err)
	}
	return nil
}

func userKey(id string) []byte {
	return []byte(userKeyPrefix + id)
}
