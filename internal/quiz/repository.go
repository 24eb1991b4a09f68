package quiz

import (
	"gorm.io/gorm"

	"reading-system/internal/models"
)

// Repository persists quiz attempts. Attempts are append-only: there is
// deliberately no update or delete here.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(attempt *models.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *Repository) ListByUser(userID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := r.db.Where("user_id = ?", userID).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
