package aiquiz

import (
	"context"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"gorm.io/gorm"
)

type AIQuizContainer struct {
	Service Service
	Handler *Handler
}

func NewAIQuizContainer(db *gorm.DB, quizzes QuizAuthor) *AIQuizContainer {
	ctx := context.Background()
	log := config.WithContext(ctx)

	var provider Provider
	if key := config.Env("GEMINI_API_KEY", ""); key != "" {
		p, err := NewGeminiProvider(ctx, key, config.Env("GEMINI_MODEL", "gemini-2.0-flash"))
		if err != nil {
			log.WithError(err).Warn("Gemini provider disabled")
		} else {
			provider = p
		}
	} else {
		log.Info("GEMINI_API_KEY not set, AI quiz generation disabled")
	}

	service := NewService(provider, NewRepository(db), quizzes)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Service: service,
		Handler: handler,
	}
}
