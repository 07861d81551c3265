package certificate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCertificateNotFound = errors.New("certificate not found")

type CertificateRepository interface {
	// CreateIfAbsent inserts c unless the learner already holds a certificate for
	// the course, and returns the stored certificate either way.
	CreateIfAbsent(ctx context.Context, c *Certificate) (*Certificate, error)
	GetByNumber(ctx context.Context, number string) (*Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Certificate, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Certificate, error)
	Count(ctx context.Context) (int64, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) CreateIfAbsent(ctx context.Context, c *Certificate) (*Certificate, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(c).Error
	if err != nil {
		return nil, err
	}

	var stored Certificate
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", c.UserID, c.CourseID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *certificateRepository) GetByNumber(ctx context.Context, number string) (*Certificate, error) {
	var c Certificate
	if err := r.db.WithContext(ctx).First(&c, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Certificate, error) {
	var certs []Certificate
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}

func (r *certificateRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Certificate, error) {
	var certs []Certificate
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("issued_at ASC").Find(&certs).Error
	return certs, err
}

func (r *certificateRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Certificate{}).Count(&total).Error
	return total, err
}
