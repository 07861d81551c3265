package course

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
)

type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	List(ctx context.Context, publishedOnly bool) ([]Course, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountCourses(ctx context.Context) (total int64, published int64, err error)

	CreateModule(ctx context.Context, m *Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	UpdateModule(ctx context.Context, m *Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error
	NextModuleIndex(ctx context.Context, courseID uuid.UUID) (int, error)
	ListModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, c *Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	var c Course
	err := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, created_at ASC")
		}).
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context, publishedOnly bool) ([]Course, error) {
	q := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "course_id", "order_index")
		}).
		Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	var courses []Course
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, c *Course) error {
	return r.db.WithContext(ctx).Omit("Modules").Save(c).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Module{}, "course_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

func (r *courseRepository) CountCourses(ctx context.Context) (int64, int64, error) {
	var total, published int64
	if err := r.db.WithContext(ctx).Model(&Course{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&Course{}).Where("published = ?", true).Count(&published).Error; err != nil {
		return 0, 0, err
	}
	return total, published, nil
}

func (r *courseRepository) CreateModule(ctx context.Context, m *Module) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *courseRepository) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	var m Module
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *courseRepository) UpdateModule(ctx context.Context, m *Module) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *courseRepository) DeleteModule(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Module{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

func (r *courseRepository) NextModuleIndex(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Module{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *courseRepository) ListModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Module{}).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
