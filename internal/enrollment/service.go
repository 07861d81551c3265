package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/certificate"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
)

// CompletionBonusXP is granted once, when a course first reaches 100%.
const CompletionBonusXP = 100

var (
	ErrNotEnrolled = errors.New("user is not enrolled in this course")
	ErrInvalidID   = errors.New("invalid id format")
)

// Catalog is the slice of the course service enrollment depends on.
type Catalog interface {
	GetPublishedCourse(ctx context.Context, id uuid.UUID) (*course.Course, error)
	FindCourse(ctx context.Context, id uuid.UUID) (*course.Course, error)
	FindModule(ctx context.Context, id uuid.UUID) (*course.Module, error)
	ModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

// QuizIndex tells which modules carry a quiz.
type QuizIndex interface {
	ModulesWithQuiz(ctx context.Context, moduleIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type CertificateIssuer interface {
	Issue(ctx context.Context, userID, courseID, enrollmentID uuid.UUID) (*certificate.Certificate, error)
}

type XPAwarder interface {
	AwardXP(ctx context.Context, userID uuid.UUID, delta int) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, actor auth.Actor, courseID string) (*Enrollment, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]Enrollment, error)
	GetProgress(ctx context.Context, actor auth.Actor, courseID string) (*ProgressResponse, error)
	MarkVideoWatched(ctx context.Context, actor auth.Actor, moduleID string) (*ProgressResponse, error)
	MarkTextRead(ctx context.Context, actor auth.Actor, moduleID string) (*ProgressResponse, error)
	RecordQuizResult(ctx context.Context, userID, moduleID uuid.UUID, score decimal.Decimal, passed bool) error
	RequireEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
	Unenroll(ctx context.Context, enrollmentID string) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

type enrollmentService struct {
	repo         EnrollmentRepository
	catalog      Catalog
	quizzes      QuizIndex
	certificates CertificateIssuer
	xp           XPAwarder
	publisher    events.Publisher
	now          func() time.Time
}

func NewService(
	repo EnrollmentRepository,
	catalog Catalog,
	quizzes QuizIndex,
	certificates CertificateIssuer,
	xp XPAwarder,
	publisher events.Publisher,
) EnrollmentService {
	return &enrollmentService{
		repo:         repo,
		catalog:      catalog,
		quizzes:      quizzes,
		certificates: certificates,
		xp:           xp,
		publisher:    publisher,
		now:          time.Now,
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

func (s *enrollmentService) Enroll(ctx context.Context, actor auth.Actor, courseID string) (*Enrollment, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	cid, err := parseUUID(log, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetPublishedCourse(ctx, cid); err != nil {
		log.WithError(err).WithField("course_id", cid).Warn("Enrollment rejected")
		return nil, err
	}

	e, err := s.repo.CreateIfAbsent(ctx, &Enrollment{UserID: userID, CourseID: cid})
	if err != nil {
		log.WithError(err).Error("Failed to enroll")
		return nil, err
	}

	log.WithFields(logrus.Fields{"course_id": cid, "enrollment_id": e.ID}).Info("User enrolled")
	return e, nil
}

func (s *enrollmentService) ListMine(ctx context.Context, actor auth.Actor) ([]Enrollment, error) {
	userID, err := parseUUID(config.WithContext(ctx), actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *enrollmentService) RequireEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error) {
	e, err := s.repo.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) GetProgress(ctx context.Context, actor auth.Actor, courseID string) (*ProgressResponse, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	cid, err := parseUUID(log, courseID)
	if err != nil {
		return nil, err
	}

	e, err := s.RequireEnrollment(ctx, userID, cid)
	if err != nil {
		return nil, err
	}
	return s.progress(ctx, e)
}

// enrollmentForModule resolves the caller's enrollment in the course that owns moduleID.
func (s *enrollmentService) enrollmentForModule(ctx context.Context, userID, moduleID uuid.UUID) (*Enrollment, error) {
	m, err := s.catalog.FindModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	return s.RequireEnrollment(ctx, userID, m.CourseID)
}

type progressWrite func(ctx context.Context, enrollmentID, moduleID uuid.UUID) error

func (s *enrollmentService) markModule(ctx context.Context, actor auth.Actor, moduleID string, write progressWrite) (*ProgressResponse, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	mid, err := parseUUID(log, moduleID)
	if err != nil {
		return nil, err
	}

	e, err := s.enrollmentForModule(ctx, userID, mid)
	if err != nil {
		return nil, err
	}

	if err := write(ctx, e.ID, mid); err != nil {
		log.WithError(err).WithField("module_id", mid).Error("Failed to record module progress")
		return nil, err
	}

	if _, err := s.refresh(ctx, e); err != nil {
		return nil, err
	}
	return s.progress(ctx, e)
}

func (s *enrollmentService) MarkVideoWatched(ctx context.Context, actor auth.Actor, moduleID string) (*ProgressResponse, error) {
	return s.markModule(ctx, actor, moduleID, s.repo.MarkVideoWatched)
}

func (s *enrollmentService) MarkTextRead(ctx context.Context, actor auth.Actor, moduleID string) (*ProgressResponse, error) {
	return s.markModule(ctx, actor, moduleID, s.repo.MarkTextRead)
}

func (s *enrollmentService) RecordQuizResult(ctx context.Context, userID, moduleID uuid.UUID, score decimal.Decimal, passed bool) error {
	log := config.WithContext(ctx).WithField("module_id", moduleID)

	e, err := s.enrollmentForModule(ctx, userID, moduleID)
	if err != nil {
		return err
	}

	if err := s.repo.RecordQuizResult(ctx, e.ID, moduleID, score, passed); err != nil {
		log.WithError(err).Error("Failed to record quiz result")
		return err
	}

	_, err = s.refresh(ctx, e)
	return err
}

// statuses merges persisted progress rows with the course's current module list.
// Rows for modules removed from the course are ignored.
func (s *enrollmentService) statuses(ctx context.Context, e *Enrollment, moduleIDs []uuid.UUID) ([]ModuleStatus, map[uuid.UUID]ModuleProgress, map[uuid.UUID]bool, error) {
	rows, err := s.repo.ListProgress(ctx, e.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	withQuiz, err := s.quizzes.ModulesWithQuiz(ctx, moduleIDs)
	if err != nil {
		return nil, nil, nil, err
	}

	byModule := make(map[uuid.UUID]ModuleProgress, len(rows))
	for _, row := range rows {
		byModule[row.ModuleID] = row
	}

	statuses := make([]ModuleStatus, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		row, ok := byModule[id]
		if !ok {
			continue
		}
		statuses = append(statuses, ModuleStatus{
			ModuleID:     id,
			VideoWatched: row.VideoWatched,
			TextRead:     row.TextRead,
			QuizPassed:   row.QuizPassed,
			HasQuiz:      withQuiz[id],
		})
	}
	return statuses, byModule, withQuiz, nil
}

// refresh recomputes the enrollment's percentage from persisted rows. When the
// course is complete for the first time it issues the certificate, grants the
// completion bonus and publishes course.completed.
func (s *enrollmentService) refresh(ctx context.Context, e *Enrollment) (int, error) {
	log := config.WithContext(ctx).WithField("enrollment_id", e.ID)

	moduleIDs, err := s.catalog.ModuleIDs(ctx, e.CourseID)
	if err != nil {
		log.WithError(err).Error("Failed to list course modules")
		return 0, err
	}
	statuses, _, _, err := s.statuses(ctx, e, moduleIDs)
	if err != nil {
		log.WithError(err).Error("Failed to load module progress")
		return 0, err
	}

	pct := Percentage(statuses, len(moduleIDs))

	if !IsComplete(pct) || e.Status == StatusCompleted {
		status := e.Status
		if status != StatusCompleted {
			status = StatusInProgress
		}
		if err := s.repo.UpdateProgress(ctx, e.ID, pct, status); err != nil {
			log.WithError(err).Error("Failed to update enrollment progress")
			return 0, err
		}
		e.Progress, e.Status = pct, status
		return pct, nil
	}

	cert, err := s.certificates.Issue(ctx, e.UserID, e.CourseID, e.ID)
	if err != nil {
		return 0, err
	}

	completedAt := s.now().UTC()
	first, err := s.repo.MarkCompleted(ctx, e.ID, completedAt)
	if err != nil {
		log.WithError(err).Error("Failed to mark enrollment completed")
		return 0, err
	}
	e.Progress, e.Status = pct, StatusCompleted
	if !first {
		return pct, nil
	}
	e.CompletedAt = &completedAt

	if err := s.xp.AwardXP(ctx, e.UserID, CompletionBonusXP); err != nil {
		log.WithError(err).Error("Failed to award completion bonus")
		return 0, err
	}

	events.Emit(ctx, s.publisher, events.CourseCompleted, events.CourseCompletedEvent{
		UserID:            e.UserID.String(),
		CourseID:          e.CourseID.String(),
		EnrollmentID:      e.ID.String(),
		CertificateNumber: cert.Number,
		CompletedAt:       completedAt,
	})

	log.WithField("certificate", cert.Number).Info("Course completed")
	return pct, nil
}

func (s *enrollmentService) progress(ctx context.Context, e *Enrollment) (*ProgressResponse, error) {
	c, err := s.catalog.FindCourse(ctx, e.CourseID)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uuid.UUID, 0, len(c.Modules))
	for _, m := range c.Modules {
		moduleIDs = append(moduleIDs, m.ID)
	}

	statuses, rows, withQuiz, err := s.statuses(ctx, e, moduleIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ModuleProgressView, 0, len(c.Modules))
	for _, m := range c.Modules {
		row := rows[m.ID]
		status := ModuleStatus{
			ModuleID:     m.ID,
			VideoWatched: row.VideoWatched,
			TextRead:     row.TextRead,
			QuizPassed:   row.QuizPassed,
			HasQuiz:      withQuiz[m.ID],
		}
		views = append(views, ModuleProgressView{
			ModuleID:         m.ID.String(),
			Title:            m.Title,
			OrderIndex:       m.OrderIndex,
			VideoWatched:     row.VideoWatched,
			TextRead:         row.TextRead,
			HasQuiz:          status.HasQuiz,
			QuizPassed:       row.QuizPassed,
			HighestQuizScore: row.HighestQuizScore,
			Completed:        status.Complete(),
		})
	}

	fresh, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	return &ProgressResponse{
		EnrollmentID: e.ID.String(),
		CourseID:     c.ID.String(),
		CourseTitle:  c.Title,
		Status:       fresh.Status,
		Percentage:   Percentage(statuses, len(moduleIDs)),
		CompletedAt:  fresh.CompletedAt,
		Modules:      views,
	}, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, enrollmentID string) error {
	log := config.WithContext(ctx)

	id, err := parseUUID(log, enrollmentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrEnrollmentNotFound) {
			log.WithError(err).Error("Failed to delete enrollment")
		}
		return err
	}

	log.WithField("enrollment_id", id).Info("Enrollment removed")
	return nil
}

func (s *enrollmentService) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountByStatus(ctx)
}
