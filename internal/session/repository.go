package session

import (
	"errors"

	"gorm.io/gorm"

	"reading-system/internal/apperr"
	"reading-system/internal/models"
)

// Active is the single predicate deciding which sessions count as live.
// Every listing and statistics query must go through it so soft-deleted
// sessions cannot leak back in from one forgotten WHERE clause.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get fetches a session by id regardless of its deleted flag. Callers
// decide whether a soft-deleted session is visible for their operation.
func (r *Repository) Get(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "session", ID: id}
		}
		return nil, err
	}
	return &session, nil
}

// ListByUser returns the user's non-deleted sessions, newest first.
func (r *Repository) ListByUser(userID string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Scopes(Active).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repository) Insert(session *models.Session) error {
	return r.db.Create(session).Error
}

func (r *Repository) Save(session *models.Session) error {
	return r.db.Save(session).Error
}
