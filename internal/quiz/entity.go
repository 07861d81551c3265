package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"course_id"`
	ModuleID         *uuid.UUID          `gorm:"type:uuid;index" json:"module_id,omitempty"`
	Title            string              `gorm:"type:text;not null" json:"title"`
	Description      string              `gorm:"type:text" json:"description,omitempty"`
	MinScore         decimal.Decimal     `gorm:"type:numeric(8,2);not null;default:0" json:"min_score"`
	PassingScore     decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"passing_score"`
	TimeLimitMinutes *int                `json:"time_limit_minutes,omitempty"`
	CreatedBy        uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// PassThreshold is the score an attempt needs to pass. Without a passing score
// a positive minimum score stands in; with neither, ok is false and no attempt
// can pass.
func (q *Quiz) PassThreshold() (threshold decimal.Decimal, ok bool) {
	if q.PassingScore.Valid {
		return q.PassingScore.Decimal, true
	}
	if q.MinScore.IsPositive() {
		return q.MinScore, true
	}
	return decimal.Zero, false
}

func (q *Quiz) MaxScore() decimal.Decimal {
	total := decimal.Zero
	for _, question := range q.Questions {
		total = total.Add(question.Points)
	}
	return total.Round(2)
}

type Question struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Text        string          `gorm:"type:text;not null" json:"text"`
	Points      decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"points"`
	Explanation *string         `gorm:"type:text" json:"explanation,omitempty"`
	OrderIndex  int             `gorm:"not null" json:"order_index"`
	CreatedAt   time.Time       `json:"created_at"`

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UserQuizAttempt is append-only. Submission keeps the raw question to answer map
// exactly as it was graded.
type UserQuizAttempt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"user_id"`
	QuizID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"quiz_id"`
	CourseID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"course_id"`
	Score       decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"score"`
	MaxScore    decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"max_score"`
	Passed      bool            `gorm:"not null" json:"passed"`
	XPAwarded   int             `gorm:"not null;default:0" json:"xp_awarded"`
	Submission  datatypes.JSON  `gorm:"type:jsonb" json:"submission"`
	SubmittedAt time.Time       `gorm:"not null" json:"submitted_at"`

	Answers []UserAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (a *UserQuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UserAnswer snapshots correctness at grading time so later edits to the quiz
// do not rewrite history.
type UserAnswer struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID    uuid.UUID       `gorm:"type:uuid;not null" json:"question_id"`
	AnswerID      uuid.UUID       `gorm:"type:uuid;not null" json:"answer_id"`
	IsCorrect     bool            `gorm:"not null" json:"is_correct"`
	PointsAwarded decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"points_awarded"`
}

func (a *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
