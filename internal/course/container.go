package course

import "gorm.io/gorm"

type CourseContainer struct {
	Repo    CourseRepository
	Service CourseService
	Handler *Handler
}

func NewCourseContainer(db *gorm.DB, guards Guards) *CourseContainer {
	repo := NewRepository(db)
	service := NewService(repo, guards)
	handler := NewHandler(service)

	return &CourseContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
