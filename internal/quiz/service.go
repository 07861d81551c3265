package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
)

var defaultPoints = decimal.NewFromInt(1)

// Question points are numeric(6,2) and quiz scores numeric(8,2).
var (
	maxQuestionPoints = decimal.NewFromInt(10000)
	maxQuizScore      = decimal.NewFromInt(1000000)
)

var (
	ErrInvalidID              = errors.New("invalid id format")
	ErrForbidden              = errors.New("not allowed to access this quiz")
	ErrMultipleCorrectAnswers = errors.New("a question may have at most one correct answer")
	ErrNegativeScore          = errors.New("points and scores must not be negative")
	ErrPointsTooLarge         = errors.New("points or scores exceed the allowed range")
	ErrPassingScoreRequired   = errors.New("a module quiz needs a passing score")
	ErrTooFewAnswers          = errors.New("a question needs at least two answers")
	ErrModuleNotInCourse      = errors.New("module does not belong to the course")
	ErrModuleHasQuiz          = errors.New("module already has a quiz")
	ErrQuizHasAttempts        = errors.New("quiz already has attempts")
)

// Catalog is the slice of the course service quizzes depend on.
type Catalog interface {
	FindCourse(ctx context.Context, id uuid.UUID) (*course.Course, error)
	FindModule(ctx context.Context, id uuid.UUID) (*course.Module, error)
}

// Enrollments is the slice of the enrollment service quizzes depend on.
type Enrollments interface {
	RequireEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error)
	RecordQuizResult(ctx context.Context, userID, moduleID uuid.UUID, score decimal.Decimal, passed bool) error
}

type QuizService interface {
	CreateQuiz(ctx context.Context, actor auth.Actor, dto CreateQuizDTO) (*Quiz, error)
	GetQuiz(ctx context.Context, actor auth.Actor, id string) (*Quiz, error)
	ListByCourse(ctx context.Context, actor auth.Actor, courseID string) ([]Quiz, error)
	DeleteQuiz(ctx context.Context, actor auth.Actor, id string) error
	AddQuestions(ctx context.Context, actor auth.Actor, quizID string, dto AddQuestionsDTO) (*Quiz, error)
	UpdateQuestion(ctx context.Context, actor auth.Actor, questionID string, dto QuestionDTO) (*Quiz, error)
	RemoveQuestion(ctx context.Context, actor auth.Actor, questionID string) error

	Submit(ctx context.Context, actor auth.Actor, quizID string, dto SubmitDTO) (*AttemptResponse, error)
	ListAttempts(ctx context.Context, actor auth.Actor, quizID string) ([]AttemptResponse, error)
	GetAttempt(ctx context.Context, actor auth.Actor, attemptID string) (*AttemptResponse, error)
	Stats(ctx context.Context) (*AttemptStats, error)
}

type quizService struct {
	repo        QuizRepository
	catalog     Catalog
	enrollments Enrollments
	xp          enrollment.XPAwarder
	publisher   events.Publisher
	now         func() time.Time
}

func NewService(
	repo QuizRepository,
	catalog Catalog,
	enrollments Enrollments,
	xp enrollment.XPAwarder,
	publisher events.Publisher,
) QuizService {
	return &quizService{
		repo:        repo,
		catalog:     catalog,
		enrollments: enrollments,
		xp:          xp,
		publisher:   publisher,
		now:         time.Now,
	}
}

func parseUUID(log logrus.FieldLogger, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warn("Invalid ID")
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}

// buildQuestions validates authoring input and converts it into entities starting
// at position offset.
func buildQuestions(dtos []QuestionDTO, offset int) ([]Question, error) {
	questions := make([]Question, 0, len(dtos))
	for i, dto := range dtos {
		points := defaultPoints
		if dto.Points != nil {
			points = *dto.Points
		}
		if points.IsNegative() {
			return nil, ErrNegativeScore
		}
		if points.Round(2).GreaterThanOrEqual(maxQuestionPoints) {
			return nil, ErrPointsTooLarge
		}

		if len(dto.Answers) < 2 {
			return nil, ErrTooFewAnswers
		}

		correct := 0
		answers := make([]Answer, 0, len(dto.Answers))
		for j, a := range dto.Answers {
			if a.IsCorrect {
				correct++
			}
			answers = append(answers, Answer{Text: a.Text, IsCorrect: a.IsCorrect, OrderIndex: j})
		}
		if correct > 1 {
			return nil, ErrMultipleCorrectAnswers
		}

		questions = append(questions, Question{
			Text:        dto.Text,
			Points:      points.Round(2),
			Explanation: dto.Explanation,
			OrderIndex:  offset + i,
			Answers:     answers,
		})
	}
	return questions, nil
}

// checkTotal keeps the quiz's maximum score storable once questions are added.
func checkTotal(current decimal.Decimal, questions []Question) error {
	total := current
	for _, q := range questions {
		total = total.Add(q.Points)
	}
	if total.GreaterThanOrEqual(maxQuizScore) {
		return ErrPointsTooLarge
	}
	return nil
}

// editableQuiz loads the quiz and checks the actor may author its course.
func (s *quizService) editableQuiz(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.catalog.FindCourse(ctx, q.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.CanEdit(actor, c) {
		return nil, ErrForbidden
	}
	return q, nil
}

func (s *quizService) CreateQuiz(ctx context.Context, actor auth.Actor, dto CreateQuizDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	creator, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	courseID, err := parseUUID(log, dto.CourseID)
	if err != nil {
		return nil, err
	}

	c, err := s.catalog.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.CanEdit(actor, c) {
		log.WithField("course_id", courseID).Warn("Quiz authoring denied")
		return nil, ErrForbidden
	}

	if dto.MinScore.IsNegative() || (dto.PassingScore != nil && dto.PassingScore.IsNegative()) {
		return nil, ErrNegativeScore
	}
	if dto.MinScore.GreaterThanOrEqual(maxQuizScore) || (dto.PassingScore != nil && dto.PassingScore.GreaterThanOrEqual(maxQuizScore)) {
		return nil, ErrPointsTooLarge
	}

	q := &Quiz{
		CourseID:         courseID,
		Title:            dto.Title,
		Description:      dto.Description,
		MinScore:         dto.MinScore.Round(2),
		TimeLimitMinutes: dto.TimeLimitMinutes,
		CreatedBy:        creator,
	}
	if dto.PassingScore != nil {
		q.PassingScore = decimal.NewNullDecimal(dto.PassingScore.Round(2))
	}

	if dto.ModuleID != nil {
		moduleID, err := parseUUID(log, *dto.ModuleID)
		if err != nil {
			return nil, err
		}
		m, err := s.catalog.FindModule(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		if m.CourseID != courseID {
			return nil, ErrModuleNotInCourse
		}
		exists, err := s.repo.ExistsForModule(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrModuleHasQuiz
		}
		// A passed module quiz counts toward completion, so it must be passable on merit.
		if _, ok := q.PassThreshold(); !ok {
			return nil, ErrPassingScoreRequired
		}
		q.ModuleID = &moduleID
	}

	questions, err := buildQuestions(dto.Questions, 0)
	if err == nil {
		err = checkTotal(decimal.Zero, questions)
	}
	if err != nil {
		log.WithError(err).Warn("Quiz authoring rejected")
		return nil, err
	}
	q.Questions = questions

	if err := s.repo.Create(ctx, q); err != nil {
		log.WithError(err).Error("Failed to create quiz")
		return nil, err
	}

	log.WithFields(logrus.Fields{"quiz_id": q.ID, "questions": len(questions)}).Info("Quiz created")
	return s.repo.GetByID(ctx, q.ID)
}

func (s *quizService) GetQuiz(ctx context.Context, actor auth.Actor, id string) (*Quiz, error) {
	log := config.WithContext(ctx)

	quizID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if !actor.IsStaff() {
		userID, err := parseUUID(log, actor.UserID)
		if err != nil {
			return nil, err
		}
		if _, err := s.enrollments.RequireEnrollment(ctx, userID, q.CourseID); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (s *quizService) ListByCourse(ctx context.Context, actor auth.Actor, courseID string) ([]Quiz, error) {
	log := config.WithContext(ctx)

	cid, err := parseUUID(log, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		userID, err := parseUUID(log, actor.UserID)
		if err != nil {
			return nil, err
		}
		if _, err := s.enrollments.RequireEnrollment(ctx, userID, cid); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByCourse(ctx, cid)
}

func (s *quizService) DeleteQuiz(ctx context.Context, actor auth.Actor, id string) error {
	log := config.WithContext(ctx)

	quizID, err := parseUUID(log, id)
	if err != nil {
		return err
	}
	if _, err := s.editableQuiz(ctx, actor, quizID); err != nil {
		return err
	}

	total, _, err := s.repo.CountAttempts(ctx, &quizID)
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrQuizHasAttempts
	}

	if err := s.repo.Delete(ctx, quizID); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return err
	}
	log.WithField("quiz_id", quizID).Info("Quiz deleted")
	return nil
}

func (s *quizService) AddQuestions(ctx context.Context, actor auth.Actor, quizID string, dto AddQuestionsDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	id, err := parseUUID(log, quizID)
	if err != nil {
		return nil, err
	}
	q, err := s.editableQuiz(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	offset, err := s.repo.NextQuestionIndex(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	questions, err := buildQuestions(dto.Questions, offset)
	if err == nil {
		err = checkTotal(q.MaxScore(), questions)
	}
	if err != nil {
		log.WithError(err).Warn("Question authoring rejected")
		return nil, err
	}
	for i := range questions {
		questions[i].QuizID = q.ID
	}

	if err := s.repo.AddQuestions(ctx, questions); err != nil {
		log.WithError(err).Error("Failed to add questions")
		return nil, err
	}

	log.WithFields(logrus.Fields{"quiz_id": q.ID, "added": len(questions)}).Info("Questions added")
	return s.repo.GetByID(ctx, q.ID)
}

// lockedQuestion loads a question for editing. Questions freeze once the quiz has attempts.
func (s *quizService) lockedQuestion(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Question, error) {
	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableQuiz(ctx, actor, question.QuizID); err != nil {
		return nil, err
	}

	total, _, err := s.repo.CountAttempts(ctx, &question.QuizID)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		return nil, ErrQuizHasAttempts
	}
	return question, nil
}

func (s *quizService) UpdateQuestion(ctx context.Context, actor auth.Actor, questionID string, dto QuestionDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	id, err := parseUUID(log, questionID)
	if err != nil {
		return nil, err
	}
	question, err := s.lockedQuestion(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	built, err := buildQuestions([]QuestionDTO{dto}, question.OrderIndex)
	if err == nil {
		err = s.checkReplacement(ctx, question, built[0])
	}
	if err != nil {
		log.WithError(err).Warn("Question update rejected")
		return nil, err
	}
	updated := built[0]
	updated.ID = question.ID
	updated.QuizID = question.QuizID

	if err := s.repo.ReplaceQuestion(ctx, &updated); err != nil {
		log.WithError(err).Error("Failed to update question")
		return nil, err
	}

	log.WithField("question_id", id).Info("Question updated")
	return s.repo.GetByID(ctx, question.QuizID)
}

func (s *quizService) checkReplacement(ctx context.Context, old *Question, replacement Question) error {
	q, err := s.repo.GetByID(ctx, old.QuizID)
	if err != nil {
		return err
	}
	return checkTotal(q.MaxScore().Sub(old.Points), []Question{replacement})
}

func (s *quizService) RemoveQuestion(ctx context.Context, actor auth.Actor, questionID string) error {
	log := config.WithContext(ctx)

	id, err := parseUUID(log, questionID)
	if err != nil {
		return err
	}
	if _, err := s.lockedQuestion(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		log.WithError(err).Error("Failed to remove question")
		return err
	}
	return nil
}

func parseSubmission(raw map[string]string) (Submission, error) {
	out := make(Submission, len(raw))
	for q, a := range raw {
		questionID, err := uuid.Parse(q)
		if err != nil {
			return nil, ErrInvalidSubmission
		}
		answerID, err := uuid.Parse(a)
		if err != nil {
			return nil, ErrInvalidSubmission
		}
		out[questionID] = answerID
	}
	return out, nil
}

func (s *quizService) Submit(ctx context.Context, actor auth.Actor, quizID string, dto SubmitDTO) (*AttemptResponse, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	id, err := parseUUID(log, quizID)
	if err != nil {
		return nil, err
	}
	log = log.WithField("quiz_id", id)

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrQuizNotFound) {
			log.WithError(err).Error("Failed to load quiz")
		}
		return nil, err
	}

	if _, err := s.enrollments.RequireEnrollment(ctx, userID, q.CourseID); err != nil {
		log.WithError(err).Warn("Submission rejected")
		return nil, err
	}

	// Resolve everything the post-attempt writes need before anything is stored.
	if q.ModuleID != nil {
		m, err := s.catalog.FindModule(ctx, *q.ModuleID)
		if err != nil {
			log.WithError(err).Error("Quiz points at a missing module")
			return nil, err
		}
		if m.CourseID != q.CourseID {
			log.WithField("module_id", m.ID).Error("Quiz module moved to another course")
			return nil, ErrModuleNotInCourse
		}
	}

	submitted, err := parseSubmission(dto.Answers)
	if err != nil {
		return nil, err
	}
	key, err := NewAnswerKey(q.Questions)
	if err != nil {
		log.WithError(err).Error("Quiz has an inconsistent answer key")
		return nil, err
	}
	result, err := Score(q, key, submitted)
	if err != nil {
		log.WithError(err).Warn("Submission rejected")
		return nil, err
	}

	previous, err := s.repo.BestScore(ctx, userID, q.ID)
	if err != nil {
		log.WithError(err).Error("Failed to load previous best score")
		return nil, err
	}
	xp := XPForImprovement(result.TotalScore, previous.Decimal)

	raw, err := json.Marshal(dto.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &UserQuizAttempt{
		UserID:      userID,
		QuizID:      q.ID,
		CourseID:    q.CourseID,
		Score:       result.TotalScore,
		MaxScore:    result.MaxScore,
		Passed:      result.Passed,
		XPAwarded:   xp,
		Submission:  datatypes.JSON(raw),
		SubmittedAt: s.now().UTC(),
	}
	for _, qr := range result.Questions {
		if !qr.Answered() {
			continue
		}
		attempt.Answers = append(attempt.Answers, UserAnswer{
			QuestionID:    qr.QuestionID,
			AnswerID:      *qr.AnswerID,
			IsCorrect:     qr.Correct,
			PointsAwarded: qr.PointsAwarded,
		})
	}

	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		log.WithError(err).Error("Failed to store attempt")
		return nil, err
	}

	if q.ModuleID != nil {
		if err := s.enrollments.RecordQuizResult(ctx, userID, *q.ModuleID, result.TotalScore, result.Passed); err != nil {
			log.WithError(err).Error("Failed to record quiz result on module progress")
			return nil, err
		}
	}

	if xp > 0 {
		if err := s.xp.AwardXP(ctx, userID, xp); err != nil {
			log.WithError(err).Error("Failed to award quiz XP")
			return nil, err
		}
	}

	events.Emit(ctx, s.publisher, events.QuizAttemptSubmitted, events.QuizAttemptSubmittedEvent{
		AttemptID:   attempt.ID.String(),
		UserID:      userID.String(),
		QuizID:      q.ID.String(),
		CourseID:    q.CourseID.String(),
		Score:       result.TotalScore.StringFixed(2),
		Passed:      result.Passed,
		XPAwarded:   xp,
		SubmittedAt: attempt.SubmittedAt,
	})

	log.WithFields(logrus.Fields{
		"attempt_id": attempt.ID,
		"score":      result.TotalScore.StringFixed(2),
		"passed":     result.Passed,
		"xp":         xp,
	}).Info("Quiz attempt graded")

	resp := ToAttemptResponse(attempt, key)
	return &resp, nil
}

func (s *quizService) ListAttempts(ctx context.Context, actor auth.Actor, quizID string) ([]AttemptResponse, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	id, err := parseUUID(log, quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.repo.ListAttempts(ctx, userID, id)
	if err != nil {
		log.WithError(err).Error("Failed to list attempts")
		return nil, err
	}

	resp := make([]AttemptResponse, 0, len(attempts))
	for i := range attempts {
		resp = append(resp, ToAttemptResponse(&attempts[i], nil))
	}
	return resp, nil
}

func (s *quizService) GetAttempt(ctx context.Context, actor auth.Actor, attemptID string) (*AttemptResponse, error) {
	log := config.WithContext(ctx)

	id, err := parseUUID(log, attemptID)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.GetAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID.String() != actor.UserID && !actor.IsStaff() {
		return nil, ErrForbidden
	}

	var key *AnswerKey
	if q, err := s.repo.GetByID(ctx, a.QuizID); err == nil {
		key, _ = NewAnswerKey(q.Questions)
	}

	resp := ToAttemptResponse(a, key)
	return &resp, nil
}

func (s *quizService) Stats(ctx context.Context) (*AttemptStats, error) {
	total, passed, err := s.repo.CountAttempts(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &AttemptStats{Total: total, Passed: passed}
	if total > 0 {
		stats.PassRate = float64(passed) / float64(total)
	}
	return stats, nil
}
