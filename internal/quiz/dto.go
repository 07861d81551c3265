package quiz

import (
	"time"

	"github.com/shopspring/decimal"
)

type AnswerDTO struct {
	Text      string `json:"text" validate:"required,max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionDTO struct {
	Text        string           `json:"text" validate:"required,max=2000"`
	Points      *decimal.Decimal `json:"points"`
	Explanation *string          `json:"explanation"`
	Answers     []AnswerDTO      `json:"answers" validate:"required,min=2,max=10,dive"`
}

type CreateQuizDTO struct {
	CourseID         string           `json:"course_id" validate:"required,uuid"`
	ModuleID         *string          `json:"module_id" validate:"omitempty,uuid"`
	Title            string           `json:"title" validate:"required,min=3,max=200"`
	Description      string           `json:"description" validate:"max=2000"`
	MinScore         decimal.Decimal  `json:"min_score"`
	PassingScore     *decimal.Decimal `json:"passing_score"`
	TimeLimitMinutes *int             `json:"time_limit_minutes" validate:"omitempty,min=1,max=600"`
	Questions        []QuestionDTO    `json:"questions" validate:"required,min=1,dive"`
}

type AddQuestionsDTO struct {
	Questions []QuestionDTO `json:"questions" validate:"required,min=1,dive"`
}

// SubmitDTO maps question id to the chosen answer id.
type SubmitDTO struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

type AnswerView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID         string          `json:"id"`
	Text       string          `json:"text"`
	Points     decimal.Decimal `json:"points"`
	OrderIndex int             `json:"order_index"`
	Answers    []AnswerView    `json:"answers"`
}

// QuizView is what learners see: no correctness flags and no explanations.
type QuizView struct {
	ID               string              `json:"id"`
	CourseID         string              `json:"course_id"`
	ModuleID         *string             `json:"module_id,omitempty"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	MinScore         decimal.Decimal     `json:"min_score"`
	PassingScore     decimal.NullDecimal `json:"passing_score"`
	MaxScore         decimal.Decimal     `json:"max_score"`
	TimeLimitMinutes *int                `json:"time_limit_minutes,omitempty"`
	Questions        []QuestionView      `json:"questions"`
}

func ToLearnerView(q *Quiz) QuizView {
	view := QuizView{
		ID:               q.ID.String(),
		CourseID:         q.CourseID.String(),
		Title:            q.Title,
		Description:      q.Description,
		MinScore:         q.MinScore,
		PassingScore:     q.PassingScore,
		MaxScore:         q.MaxScore(),
		TimeLimitMinutes: q.TimeLimitMinutes,
		Questions:        make([]QuestionView, 0, len(q.Questions)),
	}
	if q.ModuleID != nil {
		id := q.ModuleID.String()
		view.ModuleID = &id
	}

	for _, question := range q.Questions {
		qv := QuestionView{
			ID:         question.ID.String(),
			Text:       question.Text,
			Points:     question.Points,
			OrderIndex: question.OrderIndex,
			Answers:    make([]AnswerView, 0, len(question.Answers)),
		}
		for _, a := range question.Answers {
			qv.Answers = append(qv.Answers, AnswerView{ID: a.ID.String(), Text: a.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

type QuestionResultView struct {
	QuestionID    string          `json:"question_id"`
	AnswerID      *string         `json:"answer_id"`
	Correct       bool            `json:"correct"`
	PointsAwarded decimal.Decimal `json:"points_awarded"`
}

type AttemptResponse struct {
	ID          string               `json:"id"`
	QuizID      string               `json:"quiz_id"`
	CourseID    string               `json:"course_id"`
	UserID      string               `json:"user_id"`
	Score       decimal.Decimal      `json:"score"`
	MaxScore    decimal.Decimal      `json:"max_score"`
	Passed      bool                 `json:"passed"`
	XPAwarded   int                  `json:"xp_awarded"`
	SubmittedAt time.Time            `json:"submitted_at"`
	Results     []QuestionResultView `json:"results,omitempty"`
}

// ToAttemptResponse lists every question of the quiz in order; unanswered
// questions have a nil answer id.
func ToAttemptResponse(a *UserQuizAttempt, key *AnswerKey) AttemptResponse {
	resp := AttemptResponse{
		ID:          a.ID.String(),
		QuizID:      a.QuizID.String(),
		CourseID:    a.CourseID.String(),
		UserID:      a.UserID.String(),
		Score:       a.Score,
		MaxScore:    a.MaxScore,
		Passed:      a.Passed,
		XPAwarded:   a.XPAwarded,
		SubmittedAt: a.SubmittedAt,
	}
	if key == nil {
		return resp
	}

	byQuestion := make(map[string]UserAnswer, len(a.Answers))
	for _, ua := range a.Answers {
		byQuestion[ua.QuestionID.String()] = ua
	}

	for _, questionID := range key.Order() {
		view := QuestionResultView{QuestionID: questionID.String(), PointsAwarded: decimal.Zero}
		if ua, ok := byQuestion[questionID.String()]; ok {
			answerID := ua.AnswerID.String()
			view.AnswerID = &answerID
			view.Correct = ua.IsCorrect
			view.PointsAwarded = ua.PointsAwarded
		}
		resp.Results = append(resp.Results, view)
	}
	return resp
}

type AttemptStats struct {
	Total    int64   `json:"total"`
	Passed   int64   `json:"passed"`
	PassRate float64 `json:"pass_rate"`
}
