package services

import (
	"errors"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdvanceStreak computes the new (streak, longest) pair from today's date
// and the previously stored state. Same calendar day is a no-op, exactly
// one day later increments the streak, any larger gap resets it to 1 while
// preserving the historical maximum. A zero lastLogin counts as a fresh
// start.
func AdvanceStreak(today, lastLogin time.Time, current, longest int) (int, int) {
	switch {
	case lastLogin.IsZero():
		current = 1
	case sameDay(today, lastLogin):
		// already counted today
	case sameDay(today, lastLogin.AddDate(0, 0, 1)):
		current++
	default:
		current = 1
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// StreakService advances and persists login streaks. Touch runs once per
// authenticated session load.
type StreakService struct {
	streakRepository repositories.StreakRepository
}

// NewStreakService creates a new StreakService
func NewStreakService(streakRepo repositories.StreakRepository) *StreakService {
	return &StreakService{streakRepository: streakRepo}
}

// Touch advances the user's streak for today and upserts the record. A
// repeated call on the same day leaves the counters untouched.
func (s *StreakService) Touch(userID uint) (*models.LoginStreak, error) {
	now := time.Now().UTC()

	streak, err := s.streakRepository.GetStreakByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		streak = &models.LoginStreak{UserID: userID}
	}

	current, longest := AdvanceStreak(now, streak.LastLogin, streak.Current, streak.Longest)
	streak.Current = current
	streak.Longest = longest
	streak.LastLogin = now

	if err := s.streakRepository.UpsertStreak(streak); err != nil {
		return nil, err
	}

	log.Debug().Uint("user_id", userID).Int("streak", current).Int("longest", longest).Msg("Login streak advanced")
	return streak, nil
}
