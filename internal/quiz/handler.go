package quiz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidSubmission),
		errors.Is(err, ErrMultipleCorrectAnswers),
		errors.Is(err, ErrNegativeScore),
		errors.Is(err, ErrTooFewAnswers),
		errors.Is(err, ErrModuleNotInCourse):
		config.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, enrollment.ErrNotEnrolled):
		config.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrQuizNotFound),
		errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrAttemptNotFound),
		errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, course.ErrModuleNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrModuleHasQuiz), errors.Is(err, ErrQuizHasAttempts):
		config.Error(w, http.StatusConflict, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func actorFrom(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Actor{}, false
	}
	return auth.ActorFromClaims(claims), true
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto CreateQuizDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	q, err := h.service.CreateQuiz(r.Context(), actor, dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q, err := h.service.GetQuiz(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if actor.IsStaff() {
		config.JSON(w, http.StatusOK, q)
		return
	}
	config.JSON(w, http.StatusOK, ToLearnerView(q))
}

func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	quizzes, err := h.service.ListByCourse(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto AddQuestionsDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	q, err := h.service.AddQuestions(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto QuestionDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	q, err := h.service.UpdateQuestion(r.Context(), actor, chi.URLParam(r, "questionID"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveQuestion(r.Context(), actor, chi.URLParam(r, "questionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto SubmitDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.Submit(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListAttempts(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetAttempt(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
