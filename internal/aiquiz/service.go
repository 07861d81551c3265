package aiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
)

var (
	ErrProviderUnavailable = errors.New("question generation is not configured")
	ErrNoUsableQuestions   = errors.New("model returned no usable questions")
	ErrInvalidID           = errors.New("invalid id format")
	ErrForbidden           = errors.New("draft belongs to another trainer")
	ErrIndexOutOfRange     = errors.New("question index out of range")
)

// QuizAuthor is the quiz authoring path imports go through, so generated
// questions get the same validation as hand-written ones.
type QuizAuthor interface {
	AddQuestions(ctx context.Context, actor auth.Actor, quizID string, dto quiz.AddQuestionsDTO) (*quiz.Quiz, error)
}

type Service interface {
	Generate(ctx context.Context, actor auth.Actor, req GenerateDTO) (*DraftResponse, error)
	GetDraft(ctx context.Context, actor auth.Actor, id string) (*DraftResponse, error)
	Import(ctx context.Context, actor auth.Actor, draftID string, req ImportDTO) (*quiz.Quiz, error)
}

type service struct {
	provider Provider
	repo     DraftRepository
	quizzes  QuizAuthor
	now      func() time.Time
}

// NewService accepts a nil provider; generation then fails with ErrProviderUnavailable.
func NewService(provider Provider, repo DraftRepository, quizzes QuizAuthor) Service {
	return &service{provider: provider, repo: repo, quizzes: quizzes, now: time.Now}
}

// usable drops questions that do not have exactly four answers with one in range
// marked correct.
func usable(questions []GeneratedQuestion) []GeneratedQuestion {
	out := make([]GeneratedQuestion, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" || len(q.Answers) != answerCount {
			continue
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= answerCount {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (s *service) Generate(ctx context.Context, actor auth.Actor, req GenerateDTO) (*DraftResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"topic": req.Topic, "difficulty": req.Difficulty})

	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	creator, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, ErrInvalidID
	}

	generated, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(req))
	if err != nil {
		log.WithError(err).Error("Question generation failed")
		return nil, err
	}

	questions := usable(generated)
	if dropped := len(generated) - len(questions); dropped > 0 {
		log.WithField("dropped", dropped).Warn("Discarded malformed generated questions")
	}
	if len(questions) == 0 {
		return nil, ErrNoUsableQuestions
	}
	if len(questions) > clampCount(req.Count) {
		questions = questions[:clampCount(req.Count)]
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	d := &Draft{
		CreatedBy:  creator,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Model:      s.provider.Model(),
		Questions:  datatypes.JSON(raw),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		log.WithError(err).Error("Failed to store draft")
		return nil, err
	}

	log.WithFields(logrus.Fields{"draft_id": d.ID, "questions": len(questions)}).Info("Draft generated")
	return &DraftResponse{
		ID:         d.ID,
		Topic:      d.Topic,
		Difficulty: d.Difficulty,
		Questions:  questions,
	}, nil
}

func (s *service) loadDraft(ctx context.Context, actor auth.Actor, id string) (*Draft, []GeneratedQuestion, error) {
	draftID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, ErrInvalidID
	}
	d, err := s.repo.GetByID(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	if actor.Role != auth.RoleAdmin && d.CreatedBy.String() != actor.UserID {
		return nil, nil, ErrForbidden
	}

	var questions []GeneratedQuestion
	if err := json.Unmarshal(d.Questions, &questions); err != nil {
		return nil, nil, err
	}
	return d, questions, nil
}

func (s *service) GetDraft(ctx context.Context, actor auth.Actor, id string) (*DraftResponse, error) {
	d, questions, err := s.loadDraft(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &DraftResponse{
		ID:         d.ID,
		Topic:      d.Topic,
		Difficulty: d.Difficulty,
		Questions:  questions,
		Imported:   d.ImportedQuizID != nil,
	}, nil
}

// ToQuestionDTO converts a generated question into authoring input worth one point.
func ToQuestionDTO(q GeneratedQuestion) quiz.QuestionDTO {
	points := decimal.NewFromInt(1)
	dto := quiz.QuestionDTO{Text: q.Text, Points: &points}
	if q.Explanation != "" {
		explanation := q.Explanation
		dto.Explanation = &explanation
	}
	for i, a := range q.Answers {
		dto.Answers = append(dto.Answers, quiz.AnswerDTO{Text: a, IsCorrect: i == q.CorrectIndex})
	}
	return dto
}

func (s *service) Import(ctx context.Context, actor auth.Actor, draftID string, req ImportDTO) (*quiz.Quiz, error) {
	log := config.WithContext(ctx)

	d, questions, err := s.loadDraft(ctx, actor, draftID)
	if err != nil {
		return nil, err
	}
	quizID, err := uuid.Parse(req.QuizID)
	if err != nil {
		return nil, ErrInvalidID
	}

	selected := questions
	if len(req.Indexes) > 0 {
		selected = make([]GeneratedQuestion, 0, len(req.Indexes))
		for _, i := range req.Indexes {
			if i < 0 || i >= len(questions) {
				return nil, ErrIndexOutOfRange
			}
			selected = append(selected, questions[i])
		}
	}

	dto := quiz.AddQuestionsDTO{Questions: make([]quiz.QuestionDTO, 0, len(selected))}
	for _, q := range selected {
		dto.Questions = append(dto.Questions, ToQuestionDTO(q))
	}

	updated, err := s.quizzes.AddQuestions(ctx, actor, quizID.String(), dto)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkImported(ctx, d.ID, quizID, s.now().UTC()); err != nil {
		log.WithError(err).Warn("Failed to mark draft imported")
	}

	log.WithFields(logrus.Fields{"draft_id": d.ID, "quiz_id": quizID, "questions": len(selected)}).Info("Draft imported")
	return updated, nil
}
