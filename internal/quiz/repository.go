package quiz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
)

type QuizRepository interface {
	Create(ctx context.Context, q *Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Quiz, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsForModule(ctx context.Context, moduleID uuid.UUID) (bool, error)
	CourseInUse(ctx context.Context, courseID uuid.UUID) (bool, error)
	ModuleInUse(ctx context.Context, moduleID uuid.UUID) (bool, error)
	ModulesWithQuiz(ctx context.Context, moduleIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	AddQuestions(ctx context.Context, questions []Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	// ReplaceQuestion rewrites the question's fields and swaps its answer set.
	ReplaceQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	NextQuestionIndex(ctx context.Context, quizID uuid.UUID) (int, error)

	// CreateAttempt stores the attempt and its answers atomically.
	CreateAttempt(ctx context.Context, a *UserQuizAttempt) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*UserQuizAttempt, error)
	ListAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]UserQuizAttempt, error)
	BestScore(ctx context.Context, userID, quizID uuid.UUID) (decimal.NullDecimal, error)
	CountAttempts(ctx context.Context, quizID *uuid.UUID) (total int64, passed int64, err error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func preloadGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		})
}

func (r *quizRepository) Create(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := preloadGraph(r.db.WithContext(ctx)).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Quiz, error) {
	var quizzes []Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&Question{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&Question{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Quiz{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizNotFound
		}
		return nil
	})
}

func (r *quizRepository) ExistsForModule(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Quiz{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count > 0, err
}

func (r *quizRepository) CourseInUse(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Quiz{}).Where("course_id = ?", courseID).Count(&count).Error
	return count > 0, err
}

func (r *quizRepository) ModuleInUse(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	return r.ExistsForModule(ctx, moduleID)
}

func (r *quizRepository) ModulesWithQuiz(ctx context.Context, moduleIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	if len(moduleIDs) == 0 {
		return out, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Quiz{}).
		Where("module_id IN ?", moduleIDs).
		Distinct().
		Pluck("module_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *quizRepository) AddQuestions(ctx context.Context, questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ReplaceQuestion(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Answer{}, "question_id = ?", q.ID).Error; err != nil {
			return err
		}
		res := tx.Model(&Question{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"text":        q.Text,
			"points":      q.Points,
			"explanation": q.Explanation,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuestionNotFound
		}
		for i := range q.Answers {
			q.Answers[i].QuestionID = q.ID
		}
		if len(q.Answers) == 0 {
			return nil
		}
		return tx.Create(&q.Answers).Error
	})
}

func (r *quizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Answer{}, "question_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Question{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuestionNotFound
		}
		return nil
	})
}

func (r *quizRepository) NextQuestionIndex(ctx context.Context, quizID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return int(count), err
}

func (r *quizRepository) CreateAttempt(ctx context.Context, a *UserQuizAttempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := a.Answers
		if err := tx.Omit("Answers").Create(a).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].AttemptID = a.ID
		}
		return tx.Create(&answers).Error
	})
}

func (r *quizRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*UserQuizAttempt, error) {
	var a UserQuizAttempt
	if err := r.db.WithContext(ctx).Preload("Answers").First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *quizRepository) ListAttempts(ctx context.Context, userID, quizID uuid.UUID) ([]UserQuizAttempt, error) {
	var attempts []UserQuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizRepository) BestScore(ctx context.Context, userID, quizID uuid.UUID) (decimal.NullDecimal, error) {
	var best decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&UserQuizAttempt{}).
		Select("MAX(score)").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Row().
		Scan(&best)
	return best, err
}

func (r *quizRepository) CountAttempts(ctx context.Context, quizID *uuid.UUID) (int64, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&UserQuizAttempt{})
		if quizID != nil {
			q = q.Where("quiz_id = ?", *quizID)
		}
		return q
	}

	var total, passed int64
	if err := scope().Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := scope().Where("passed = ?", true).Count(&passed).Error; err != nil {
		return 0, 0, err
	}
	return total, passed, nil
}
