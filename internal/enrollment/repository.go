package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEnrollmentNotFound = errors.New("enrollment not found")

type EnrollmentRepository interface {
	CreateIfAbsent(ctx context.Context, e *Enrollment) (*Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	GetByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status Status) error
	// MarkCompleted flips the enrollment to COMPLETED and reports whether this
	// call did it. Only the first caller observes true.
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CourseInUse(ctx context.Context, courseID uuid.UUID) (bool, error)

	ListProgress(ctx context.Context, enrollmentID uuid.UUID) ([]ModuleProgress, error)
	MarkVideoWatched(ctx context.Context, enrollmentID, moduleID uuid.UUID) error
	MarkTextRead(ctx context.Context, enrollmentID, moduleID uuid.UUID) error
	RecordQuizResult(ctx context.Context, enrollmentID, moduleID uuid.UUID, score decimal.Decimal, passed bool) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) CreateIfAbsent(ctx context.Context, e *Enrollment) (*Enrollment, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(e).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserCourse(ctx, e.UserID, e.CourseID)
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	var e Enrollment
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) GetByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error) {
	var e Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	var list []Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ModuleProgress{}, "enrollment_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Enrollment{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEnrollmentNotFound
		}
		return nil
	})
}

func (r *enrollmentRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"progress": progress, "status": status}).Error
}

func (r *enrollmentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("id = ? AND status <> ?", id, StatusCompleted).
		Updates(map[string]interface{}{
			"status":       StatusCompleted,
			"progress":     100,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *enrollmentRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[Status]int64, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *enrollmentRepository) ListProgress(ctx context.Context, enrollmentID uuid.UUID) ([]ModuleProgress, error) {
	var rows []ModuleProgress
	err := r.db.WithContext(ctx).Where("enrollment_id = ?", enrollmentID).Find(&rows).Error
	return rows, err
}

// upsert inserts the row or, when (enrollment_id, module_id) already exists, applies
// only the given assignments so concurrent writers on other columns are preserved.
func (r *enrollmentRepository) upsert(ctx context.Context, row *ModuleProgress, set map[string]interface{}) error {
	set["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
			DoUpdates: clause.Assignments(set),
		}).
		Create(row).Error
}

func (r *enrollmentRepository) MarkVideoWatched(ctx context.Context, enrollmentID, moduleID uuid.UUID) error {
	return r.upsert(ctx,
		&ModuleProgress{EnrollmentID: enrollmentID, ModuleID: moduleID, VideoWatched: true},
		map[string]interface{}{"video_watched": true},
	)
}

func (r *enrollmentRepository) MarkTextRead(ctx context.Context, enrollmentID, moduleID uuid.UUID) error {
	return r.upsert(ctx,
		&ModuleProgress{EnrollmentID: enrollmentID, ModuleID: moduleID, TextRead: true},
		map[string]interface{}{"text_read": true},
	)
}

func (r *enrollmentRepository) RecordQuizResult(ctx context.Context, enrollmentID, moduleID uuid.UUID, score decimal.Decimal, passed bool) error {
	return r.upsert(ctx,
		&ModuleProgress{
			EnrollmentID:     enrollmentID,
			ModuleID:         moduleID,
			QuizPassed:       passed,
			HighestQuizScore: score.Round(2),
		},
		map[string]interface{}{
			"quiz_passed": gorm.Expr("module_progresses.quiz_passed OR excluded.quiz_passed"),
			"highest_quiz_score": gorm.Expr(
				"CASE WHEN excluded.highest_quiz_score > module_progresses.highest_quiz_score " +
					"THEN excluded.highest_quiz_score ELSE module_progresses.highest_quiz_score END"),
		},
	)
}

func (r *enrollmentRepository) CourseInUse(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count > 0, err
}
