package repositories

import (
	"github.com/kapilnath546/study-buddies/internal/models"
	"gorm.io/gorm"
)

// MatchRepository defines the interface for match edge operations
type MatchRepository interface {
	CreateMatch(match *models.Match) error
	GetMatchByID(id uint) (*models.Match, error)
	GetMatchesByUserID(userID uint) ([]models.Match, error)
	GetMatchedUserIDs(userID uint) ([]uint, error)
}

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *gorm.DB
}

// NewPostgresMatchRepository creates a new PostgresMatchRepository
func NewPostgresMatchRepository(db *gorm.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// CreateMatch persists a swipe-right edge. A duplicate (liker, target) pair
// fails with gorm.ErrDuplicatedKey via the unique index.
func (r *PostgresMatchRepository) CreateMatch(match *models.Match) error {
	return r.db.Create(match).Error
}

// GetMatchByID retrieves a match by ID from PostgreSQL
func (r *PostgresMatchRepository) GetMatchByID(id uint) (*models.Match, error) {
	var match models.Match
	if err := r.db.First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatchesByUserID retrieves all matches the user participates in,
// in either direction, newest first.
func (r *PostgresMatchRepository) GetMatchesByUserID(userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("liker_id = ? OR target_id = ?", userID, userID).
		Order("created_at DESC").Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetMatchedUserIDs returns the IDs of every user already connected to the
// given user by a match edge in either direction.
func (r *PostgresMatchRepository) GetMatchedUserIDs(userID uint) ([]uint, error) {
	matches, err := r.GetMatchesByUserID(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.OtherUser(userID))
	}
	return ids, nil
}
