package container

import (
	"context"
	"net/http"

	"github.com/saulo-duarte/learnhub-lambda/internal/admin"
	"github.com/saulo-duarte/learnhub-lambda/internal/aiquiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/certificate"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
	"github.com/saulo-duarte/learnhub-lambda/internal/googleauth"
	"github.com/saulo-duarte/learnhub-lambda/internal/leaderboard"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/router"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
	"gorm.io/gorm"
)

type Container struct {
	UserContainer        *user.UserContainer
	GoogleAuthContainer  *googleauth.GoogleAuthContainer
	CourseContainer      *course.CourseContainer
	CertificateContainer *certificate.CertificateContainer
	LeaderboardContainer *leaderboard.LeaderboardContainer
	EnrollmentContainer  *enrollment.EnrollmentContainer
	QuizContainer        *quiz.QuizContainer
	AIQuizContainer      *aiquiz.AIQuizContainer
	AdminContainer       *admin.AdminContainer

	publisher events.Publisher
	redis     *leaderboard.RedisCache
}

// Models lists every table AutoMigrate manages.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&course.Course{}, &course.Module{},
		&enrollment.Enrollment{}, &enrollment.ModuleProgress{},
		&certificate.Certificate{},
		&quiz.Quiz{}, &quiz.Question{}, &quiz.Answer{}, &quiz.UserQuizAttempt{}, &quiz.UserAnswer{},
		&aiquiz.Draft{},
	}
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	ctx := context.Background()
	logger := config.WithContext(ctx)

	dsn := config.Env("DATABASE_DSN", "")
	if err := config.Connect(ctx, dsn, Models()...); err != nil {
		logger.WithError(err).Fatal("Failed to connect to DB")
	}

	c := &Container{publisher: events.NoopPublisher{}}

	if url := config.Env("AMQP_URL", ""); url != "" {
		p, err := events.NewAMQPPublisher(url)
		if err != nil {
			logger.WithError(err).Warn("RabbitMQ unavailable, domain events disabled")
		} else {
			c.publisher = p
		}
	}

	var cache leaderboard.Cache
	if addr := config.Env("REDIS_ADDR", ""); addr != "" {
		rc, err := leaderboard.NewRedisCache(ctx, leaderboard.RedisOptions{
			Addr:     addr,
			Password: config.Env("REDIS_PASSWORD", ""),
			DB:       config.EnvInt("REDIS_DB", 0),
			TTL:      config.EnvDuration("LEADERBOARD_CACHE_TTL", leaderboard.DefaultCacheTTL),
		})
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, leaderboard reads go to the database")
		} else {
			c.redis = rc
			cache = rc
		}
	}

	c.wire(config.DB, cache)
	return c
}

// Build wires every feature container on top of an open database. A nil cache
// leaves the leaderboard reading straight from the database.
func Build(db *gorm.DB, publisher events.Publisher, cache leaderboard.Cache) *Container {
	c := &Container{publisher: publisher}
	c.wire(db, cache)
	return c
}

func (c *Container) wire(db *gorm.DB, cache leaderboard.Cache) {
	userRepo := user.NewRepository(db)
	c.LeaderboardContainer = leaderboard.NewLeaderboardContainer(userRepo, cache)
	c.UserContainer = user.NewUserContainer(userRepo, c.LeaderboardContainer.Service)
	c.GoogleAuthContainer = googleauth.NewGoogleAuthContainer(c.UserContainer.Repo, c.UserContainer.Service)

	quizRepo := quiz.NewRepository(db)
	enrollmentRepo := enrollment.NewRepository(db)
	c.CourseContainer = course.NewCourseContainer(db, course.Guards{
		Courses: []course.CourseGuard{quizRepo, enrollmentRepo},
		Modules: []course.ModuleGuard{quizRepo},
	})
	c.CertificateContainer = certificate.NewCertificateContainer(db)

	c.EnrollmentContainer = enrollment.NewEnrollmentContainer(
		enrollmentRepo,
		c.CourseContainer.Service,
		quizRepo,
		c.CertificateContainer.Service,
		c.LeaderboardContainer.Service,
		c.publisher,
	)
	c.QuizContainer = quiz.NewQuizContainer(
		quizRepo,
		c.CourseContainer.Service,
		c.EnrollmentContainer.Service,
		c.LeaderboardContainer.Service,
		c.publisher,
	)
	c.AIQuizContainer = aiquiz.NewAIQuizContainer(db, c.QuizContainer.Service)
	c.AdminContainer = admin.NewAdminContainer(
		c.UserContainer.Repo,
		c.CourseContainer.Repo,
		c.EnrollmentContainer.Service,
		c.QuizContainer.Service,
		c.CertificateContainer.Repo,
	)
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:        c.UserContainer.Handler,
		GoogleAuthHandler:  c.GoogleAuthContainer.Handler,
		CourseHandler:      c.CourseContainer.Handler,
		EnrollmentHandler:  c.EnrollmentContainer.Handler,
		QuizHandler:        c.QuizContainer.Handler,
		LeaderboardHandler: c.LeaderboardContainer.Handler,
		CertificateHandler: c.CertificateContainer.Handler,
		AIQuizHandler:      c.AIQuizContainer.Handler,
		AdminHandler:       c.AdminContainer.Handler,
	})
}

// Close releases the broker and cache connections. The database pool is left to the process.
func (c *Container) Close() {
	if err := c.publisher.Close(); err != nil {
		config.Logger.WithError(err).Warn("Failed to close event publisher")
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			config.Logger.WithError(err).Warn("Failed to close redis client")
		}
	}
}
