package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/gradeboard/internal/domain"
	"github.com/Clark-Hu/gradeboard/internal/grades"
	"github.com/Clark-Hu/gradeboard/internal/roster"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadAPI(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, grades.NewChartData(grades.Aggregate(doc.Students)))
}

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "student id must be an integer")
		return
	}

	doc, ok := s.loadAPI(w, r)
	if !ok {
		return
	}
	student, err := roster.Find(doc, id)
	if err != nil {
		if errors.Is(err, roster.ErrStudentNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch student")
		return
	}
	s.respondJSON(w, http.StatusOK, student)
}

func (s *Server) loadAPI(w http.ResponseWriter, r *http.Request) (domain.Roster, bool) {
	doc, err := s.source.Load(r.Context())
	if err != nil {
		s.logger.Error("load roster failed",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load roster")
		return domain.Roster{}, false
	}
	return doc, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
