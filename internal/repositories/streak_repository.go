package repositories

import (
	"github.com/kapilnath546/study-buddies/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StreakRepository defines the interface for login streak operations
type StreakRepository interface {
	GetStreakByUserID(userID uint) (*models.LoginStreak, error)
	UpsertStreak(streak *models.LoginStreak) error
}

// PostgresStreakRepository implements StreakRepository for PostgreSQL
type PostgresStreakRepository struct {
	db *gorm.DB
}

// NewPostgresStreakRepository creates a new PostgresStreakRepository
func NewPostgresStreakRepository(db *gorm.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

// GetStreakByUserID retrieves a user's streak record
func (r *PostgresStreakRepository) GetStreakByUserID(userID uint) (*models.LoginStreak, error) {
	var streak models.LoginStreak
	if err := r.db.First(&streak, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

// UpsertStreak writes the streak record keyed by user ID
func (r *PostgresStreakRepository) UpsertStreak(streak *models.LoginStreak) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current", "longest", "last_login", "updated_at"}),
	}).Create(streak).Error
}
