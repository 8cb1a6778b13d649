// Package api exposes the progression engine as a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

type LearnerProvider interface {
	Learner(ctx context.Context, userID int64) (*service.Learner, error)
}

type Curriculum interface {
	Thresholds() []entities.LevelThreshold
}

// Handler serves the progress and review endpoints of a single user.
type Handler struct {
	learners   LearnerProvider
	curriculum Curriculum
	logger     *zap.Logger
}

func NewHandler(learners LearnerProvider, curriculum Curriculum, logger *zap.Logger) *Handler {
	return &Handler{
		learners:   learners,
		curriculum: curriculum,
		logger:     logger,
	}
}

// Routes builds the router with every endpoint and the standard middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/progress", h.GetProgress)
		r.Delete("/progress", h.ResetProgress)
		r.Post("/xp", h.AddXP)
		r.Post("/streak", h.CheckStreak)
		r.Post("/lessons/{lessonID}/complete", h.CompleteLesson)
		r.Get("/reviews", h.ListReviews)
		r.Get("/reviews/due", h.GetDueReviews)
		r.Post("/reviews/{wordID}", h.SubmitReview)
	})

	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// learner resolves the {userID} path parameter. It writes the error response
// and returns false when the id is not a positive integer or the learner's
// stored state cannot be read.
func (h *Handler) learner(w http.ResponseWriter, r *http.Request) (*service.Learner, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid user id", nil)
		return nil, false
	}

	l, err := h.learners.Learner(r.Context(), userID)
	if err != nil {
		w.Header().Set("Retry-After", "5")
		respondError(w, r, h.logger, http.StatusServiceUnavailable, "progress temporarily unavailable", err)
		return nil, false
	}
	return l, true
}

func (h *Handler) progress(w http.ResponseWriter, status int, state entities.ProgressState) {
	respondJSON(w, h.logger, status, newProgressResponse(state, h.curriculum.Thresholds()))
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}
	h.progress(w, http.StatusOK, l.Progress().State())
}

func (h *Handler) AddXP(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}

	var req AddXPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request body", err)
		return
	}

	h.progress(w, http.StatusOK, l.Progress().AddXP(r.Context(), *req.Amount))
}

// CompleteLesson records the lesson, pays the optional xp and schedules the
// lesson's words for review.
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	if lessonID == "" {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid lesson id", nil)
		return
	}

	var req CompleteLessonRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, h.logger, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	outcome := l.CompleteLesson(r.Context(), lessonID, req.XP)
	respondJSON(w, h.logger, http.StatusOK, newLessonOutcomeResponse(outcome, h.curriculum.Thresholds()))
}

func (h *Handler) CheckStreak(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}
	h.progress(w, http.StatusOK, l.Progress().CheckAndUpdateStreak(r.Context()))
}

func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}
	h.progress(w, http.StatusOK, l.Reset(r.Context()))
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}
	respondJSON(w, h.logger, http.StatusOK, newDueReviewsResponse(l.Reviews().Items()))
}

func (h *Handler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}
	respondJSON(w, h.logger, http.StatusOK, newDueReviewsResponse(l.Reviews().GetDueReviewItems(r.Context())))
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	l, ok := h.learner(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request body", err)
		return
	}

	item, ok := l.Reviews().SubmitReview(r.Context(), chi.URLParam(r, "wordID"), *req.Known)
	if !ok {
		respondError(w, r, h.logger, http.StatusNotFound, "word is not scheduled for review", nil)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, newReviewItemResponse(item))
}

func newDueReviewsResponse(items []entities.ReviewItem) DueReviewsResponse {
	out := make([]ReviewItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, newReviewItemResponse(it))
	}
	return DueReviewsResponse{Items: out, Total: len(out)}
}
