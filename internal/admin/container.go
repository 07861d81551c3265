package admin

type AdminContainer struct {
	Service StatsService
	Handler *Handler
}

func NewAdminContainer(
	users UserCounter,
	courses CourseCounter,
	enrollments EnrollmentCounter,
	attempts AttemptCounter,
	certificates CertificateCounter,
) *AdminContainer {
	service := NewService(users, courses, enrollments, attempts, certificates)
	return &AdminContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
