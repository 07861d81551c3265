package certificate

import "gorm.io/gorm"

type CertificateContainer struct {
	Repo    CertificateRepository
	Service CertificateService
	Handler *Handler
}

func NewCertificateContainer(db *gorm.DB) *CertificateContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &CertificateContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
