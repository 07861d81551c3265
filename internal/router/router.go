package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/learnhub-lambda/internal/admin"
	"github.com/saulo-duarte/learnhub-lambda/internal/aiquiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/certificate"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/googleauth"
	"github.com/saulo-duarte/learnhub-lambda/internal/leaderboard"
	"github.com/saulo-duarte/learnhub-lambda/internal/middlewares"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler        *user.Handler
	GoogleAuthHandler  *googleauth.Handler
	CourseHandler      *course.Handler
	EnrollmentHandler  *enrollment.Handler
	QuizHandler        *quiz.Handler
	LeaderboardHandler *leaderboard.Handler
	CertificateHandler *certificate.Handler
	AIQuizHandler      *aiquiz.Handler
	AdminHandler       *admin.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/verify", cfg.UserHandler.VerifyNIK)
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", auth.NewHandler().Logout)
		r.Mount("/google", googleauth.Routes(cfg.GoogleAuthHandler))
	})

	r.Get("/certificates/{number}", cfg.CertificateHandler.Verify)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/courses", course.Routes(cfg.CourseHandler))
		r.Mount("/modules", course.ModuleRoutes(cfg.CourseHandler))
		r.Mount("/enrollments", enrollment.Routes(cfg.EnrollmentHandler))
		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
		r.Mount("/leaderboard", leaderboard.Routes(cfg.LeaderboardHandler))
		r.Mount("/certificates", certificate.Routes(cfg.CertificateHandler))
		r.Mount("/ai-quiz", aiquiz.Routes(cfg.AIQuizHandler))

		r.Post("/courses/{id}/enroll", cfg.EnrollmentHandler.Enroll)
		r.Get("/courses/{id}/progress", cfg.EnrollmentHandler.GetProgress)
		r.Get("/courses/{id}/quizzes", cfg.QuizHandler.ListByCourse)
		r.Post("/modules/{id}/video-watched", cfg.EnrollmentHandler.MarkVideoWatched)
		r.Post("/modules/{id}/text-read", cfg.EnrollmentHandler.MarkTextRead)
		r.Post("/quiz/{id}/submit", cfg.QuizHandler.Submit)
		r.Get("/attempts/{id}", cfg.QuizHandler.GetAttempt)

		r.With(auth.RequireRole(auth.RoleTrainer)).
			Get("/courses/{id}/certificates", cfg.CertificateHandler.ListByCourse)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))

			r.Mount("/", user.AdminRoutes(cfg.UserHandler))
			r.Get("/stats", cfg.AdminHandler.Stats)
			r.Delete("/enrollments/{id}", cfg.EnrollmentHandler.Unenroll)
		})
	})
	return r
}
