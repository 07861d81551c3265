package course

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidID       = errors.New("invalid id format")
	ErrForbidden       = errors.New("not allowed to modify this course")
	ErrNotPublished    = errors.New("course is not published")
	ErrInvalidOrdering = errors.New("module list does not match the course modules")
	ErrCourseInUse     = errors.New("course still has quizzes or enrollments")
	ErrModuleInUse     = errors.New("module still has a quiz")
)

// CourseGuard reports whether another feature still references a course.
type CourseGuard interface {
	CourseInUse(ctx context.Context, courseID uuid.UUID) (bool, error)
}

// ModuleGuard reports whether another feature still references a module.
type ModuleGuard interface {
	ModuleInUse(ctx context.Context, moduleID uuid.UUID) (bool, error)
}

// Guards veto deletes that would leave quizzes or enrollments pointing at nothing.
type Guards struct {
	Courses []CourseGuard
	Modules []ModuleGuard
}

type CourseService interface {
	CreateCourse(ctx context.Context, actor auth.Actor, dto CreateCourseDTO) (*Course, error)
	UpdateCourse(ctx context.Context, actor auth.Actor, id string, dto UpdateCourseDTO) (*Course, error)
	DeleteCourse(ctx context.Context, actor auth.Actor, id string) error
	SetPublished(ctx context.Context, actor auth.Actor, id string, published bool) (*Course, error)
	ListCourses(ctx context.Context, actor auth.Actor) ([]Course, error)
	GetCourse(ctx context.Context, actor auth.Actor, id string) (*Course, error)
	GetPublishedCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	FindCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	FindModule(ctx context.Context, id uuid.UUID) (*Module, error)

	AddModule(ctx context.Context, actor auth.Actor, courseID string, dto ModuleDTO) (*Module, error)
	UpdateModule(ctx context.Context, actor auth.Actor, moduleID string, dto UpdateModuleDTO) (*Module, error)
	DeleteModule(ctx context.Context, actor auth.Actor, moduleID string) error
	ReorderModules(ctx context.Context, actor auth.Actor, courseID string, dto ReorderModulesDTO) (*Course, error)

	ModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	CountModules(ctx context.Context, courseID uuid.UUID) (int, error)
}

type courseService struct {
	repo   CourseRepository
	guards Guards
}

func NewService(repo CourseRepository, guards Guards) CourseService {
	return &courseService{repo: repo, guards: guards}
}

func parseUUID(log logrus.FieldLogger, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warn("Invalid ID")
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}

// CanEdit reports whether the actor may modify c. Trainers only touch their own courses.
func CanEdit(actor auth.Actor, c *Course) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleTrainer:
		return c.CreatedBy.String() == actor.UserID
	default:
		return false
	}
}

func (s *courseService) editableCourse(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Course, error) {
	log := config.WithContext(ctx).WithField("course_id", id)

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) {
			log.WithError(err).Error("Failed to load course")
		}
		return nil, err
	}
	if !CanEdit(actor, c) {
		log.Warn("Course modification denied")
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *courseService) CreateCourse(ctx context.Context, actor auth.Actor, dto CreateCourseDTO) (*Course, error) {
	log := config.WithContext(ctx)

	creator, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}

	c := &Course{
		Title:        dto.Title,
		Description:  dto.Description,
		ThumbnailURL: dto.ThumbnailURL,
		CreatedBy:    creator,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		log.WithError(err).Error("Failed to create course")
		return nil, err
	}

	log.WithField("course_id", c.ID).Info("Course created")
	return c, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, actor auth.Actor, id string, dto UpdateCourseDTO) (*Course, error) {
	log := config.WithContext(ctx)

	courseID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}
	c, err := s.editableCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.ThumbnailURL != nil {
		c.ThumbnailURL = *dto.ThumbnailURL
	}

	if err := s.repo.Update(ctx, c); err != nil {
		log.WithError(err).Error("Failed to update course")
		return nil, err
	}
	return c, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, actor auth.Actor, id string) error {
	log := config.WithContext(ctx)

	courseID, err := parseUUID(log, id)
	if err != nil {
		return err
	}
	if _, err := s.editableCourse(ctx, actor, courseID); err != nil {
		return err
	}

	for _, g := range s.guards.Courses {
		inUse, err := g.CourseInUse(ctx, courseID)
		if err != nil {
			log.WithError(err).Error("Failed to check course references")
			return err
		}
		if inUse {
			log.WithField("course_id", courseID).Warn("Course delete refused")
			return ErrCourseInUse
		}
	}

	if err := s.repo.Delete(ctx, courseID); err != nil {
		log.WithError(err).Error("Failed to delete course")
		return err
	}
	log.WithField("course_id", courseID).Info("Course deleted")
	return nil
}

func (s *courseService) SetPublished(ctx context.Context, actor auth.Actor, id string, published bool) (*Course, error) {
	log := config.WithContext(ctx)

	courseID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}
	c, err := s.editableCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	c.Published = published
	if published {
		now := time.Now().UTC()
		c.PublishedAt = &now
	} else {
		c.PublishedAt = nil
	}

	if err := s.repo.Update(ctx, c); err != nil {
		log.WithError(err).Error("Failed to change publication state")
		return nil, err
	}
	log.WithFields(logrus.Fields{"course_id": c.ID, "published": published}).Info("Course publication changed")
	return c, nil
}

func (s *courseService) ListCourses(ctx context.Context, actor auth.Actor) ([]Course, error) {
	courses, err := s.repo.List(ctx, !actor.IsStaff())
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list courses")
		return nil, err
	}
	return courses, nil
}

func (s *courseService) GetCourse(ctx context.Context, actor auth.Actor, id string) (*Course, error) {
	log := config.WithContext(ctx)

	courseID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) {
			log.WithError(err).Error("Failed to load course")
		}
		return nil, err
	}
	// Drafts are invisible to learners.
	if !c.Published && !actor.IsStaff() {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) GetPublishedCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Published {
		return nil, ErrNotPublished
	}
	return c, nil
}

// FindCourse loads a course with its modules regardless of publication state.
func (s *courseService) FindCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *courseService) FindModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	return s.repo.GetModule(ctx, id)
}

func (s *courseService) AddModule(ctx context.Context, actor auth.Actor, courseID string, dto ModuleDTO) (*Module, error) {
	log := config.WithContext(ctx)

	cid, err := parseUUID(log, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableCourse(ctx, actor, cid); err != nil {
		return nil, err
	}

	index := 0
	if dto.OrderIndex != nil {
		index = *dto.OrderIndex
	} else {
		next, err := s.repo.NextModuleIndex(ctx, cid)
		if err != nil {
			log.WithError(err).Error("Failed to compute module position")
			return nil, err
		}
		index = next
	}

	m := &Module{
		CourseID:    cid,
		Title:       dto.Title,
		VideoURL:    dto.VideoURL,
		TextContent: dto.TextContent,
		OrderIndex:  index,
	}
	if err := s.repo.CreateModule(ctx, m); err != nil {
		log.WithError(err).Error("Failed to create module")
		return nil, err
	}

	log.WithFields(logrus.Fields{"course_id": cid, "module_id": m.ID}).Info("Module created")
	return m, nil
}

func (s *courseService) editableModule(ctx context.Context, actor auth.Actor, moduleID string) (*Module, error) {
	log := config.WithContext(ctx)

	mid, err := parseUUID(log, moduleID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.GetModule(ctx, mid)
	if err != nil {
		if !errors.Is(err, ErrModuleNotFound) {
			log.WithError(err).Error("Failed to load module")
		}
		return nil, err
	}
	if _, err := s.editableCourse(ctx, actor, m.CourseID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *courseService) UpdateModule(ctx context.Context, actor auth.Actor, moduleID string, dto UpdateModuleDTO) (*Module, error) {
	m, err := s.editableModule(ctx, actor, moduleID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		m.Title = *dto.Title
	}
	if dto.VideoURL != nil {
		m.VideoURL = *dto.VideoURL
	}
	if dto.TextContent != nil {
		m.TextContent = *dto.TextContent
	}
	if dto.OrderIndex != nil {
		m.OrderIndex = *dto.OrderIndex
	}

	if err := s.repo.UpdateModule(ctx, m); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to update module")
		return nil, err
	}
	return m, nil
}

func (s *courseService) DeleteModule(ctx context.Context, actor auth.Actor, moduleID string) error {
	log := config.WithContext(ctx)

	m, err := s.editableModule(ctx, actor, moduleID)
	if err != nil {
		return err
	}

	for _, g := range s.guards.Modules {
		inUse, err := g.ModuleInUse(ctx, m.ID)
		if err != nil {
			log.WithError(err).Error("Failed to check module references")
			return err
		}
		if inUse {
			log.WithField("module_id", m.ID).Warn("Module delete refused")
			return ErrModuleInUse
		}
	}

	if err := s.repo.DeleteModule(ctx, m.ID); err != nil {
		log.WithError(err).Error("Failed to delete module")
		return err
	}
	return nil
}

func (s *courseService) ReorderModules(ctx context.Context, actor auth.Actor, courseID string, dto ReorderModulesDTO) (*Course, error) {
	log := config.WithContext(ctx)

	cid, err := parseUUID(log, courseID)
	if err != nil {
		return nil, err
	}
	c, err := s.editableCourse(ctx, actor, cid)
	if err != nil {
		return nil, err
	}

	if len(dto.ModuleIDs) != len(c.Modules) {
		return nil, ErrInvalidOrdering
	}
	byID := make(map[uuid.UUID]*Module, len(c.Modules))
	for i := range c.Modules {
		byID[c.Modules[i].ID] = &c.Modules[i]
	}

	seen := make(map[uuid.UUID]bool, len(dto.ModuleIDs))
	for i, raw := range dto.ModuleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidID
		}
		m, ok := byID[id]
		if !ok || seen[id] {
			return nil, ErrInvalidOrdering
		}
		seen[id] = true
		m.OrderIndex = i
	}

	for i := range c.Modules {
		if err := s.repo.UpdateModule(ctx, &c.Modules[i]); err != nil {
			log.WithError(err).Error("Failed to reorder modules")
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, cid)
}

func (s *courseService) ModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListModuleIDs(ctx, courseID)
}

func (s *courseService) CountModules(ctx context.Context, courseID uuid.UUID) (int, error) {
	ids, err := s.repo.ListModuleIDs(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
