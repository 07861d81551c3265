package aiquiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDraftNotFound = errors.New("draft not found")

type DraftRepository interface {
	Create(ctx context.Context, d *Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (*Draft, error)
	MarkImported(ctx context.Context, id, quizID uuid.UUID, at time.Time) error
}

type draftRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, d *Draft) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *draftRepository) GetByID(ctx context.Context, id uuid.UUID) (*Draft, error) {
	var d Draft
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *draftRepository) MarkImported(ctx context.Context, id, quizID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Draft{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"imported_quiz_id": quizID, "imported_at": at}).Error
}
