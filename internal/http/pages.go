package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/gradeboard/internal/domain"
	"github.com/Clark-Hu/gradeboard/internal/grades"
	"github.com/Clark-Hu/gradeboard/internal/render"
)

const loadFailedMessage = "Impossible de charger les données des étudiants."

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.respondPage(w, r, http.StatusOK, render.PageIndex, render.PageData{Title: "Accueil"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	s.respondPage(w, r, http.StatusOK, render.PageTables, render.PageData{
		Title: "Tableaux",
		Rows:  render.NewTableRows(doc.Students),
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	s.respondPage(w, r, http.StatusOK, render.PageCharts, render.PageData{
		Title:  "Graphiques",
		Charts: grades.NewChartData(grades.Aggregate(doc.Students)),
	})
}

func (s *Server) handleAverageChart(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	data := grades.NewChartData(grades.Aggregate(doc.Students))

	var buf bytes.Buffer
	if err := render.AverageChartSVG(&buf, data); err != nil {
		s.respondChartError(w, r, err)
		return
	}
	s.respondSVG(w, &buf)
}

func (s *Server) handleCourseChart(w http.ResponseWriter, r *http.Request) {
	code, err := decodeCourseParam(r)
	if err != nil {
		s.respondErrorPage(w, r, http.StatusNotFound, "Graphique introuvable.")
		return
	}
	doc, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	course, found := grades.NewChartData(grades.Aggregate(doc.Students)).Course(code)
	if !found {
		s.respondErrorPage(w, r, http.StatusNotFound, "UV inconnue.")
		return
	}

	var buf bytes.Buffer
	if err := render.CourseChartSVG(&buf, course); err != nil {
		s.respondChartError(w, r, err)
		return
	}
	s.respondSVG(w, &buf)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondErrorPage(w, r, http.StatusNotFound, "Page introuvable.")
}

// loadPage reads the roster for an HTML route. On failure the error page has
// already been written and ok is false.
func (s *Server) loadPage(w http.ResponseWriter, r *http.Request) (domain.Roster, bool) {
	doc, err := s.source.Load(r.Context())
	if err != nil {
		s.logger.Error("load roster failed",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		s.respondErrorPage(w, r, http.StatusInternalServerError, loadFailedMessage)
		return domain.Roster{}, false
	}
	return doc, true
}

func (s *Server) respondPage(w http.ResponseWriter, r *http.Request, status int, page string, data render.PageData) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page, data); err != nil {
		s.logger.Error("render page failed", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("write page failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

func (s *Server) respondErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondPage(w, r, status, render.PageError, render.PageData{
		Title:   "Erreur",
		Status:  status,
		Message: message,
	})
}

func (s *Server) respondChartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, render.ErrNoChartData) {
		s.respondErrorPage(w, r, http.StatusNotFound, "Aucune donnée à afficher.")
		return
	}
	s.logger.Error("render chart failed", slog.Any("error", err))
	s.respondErrorPage(w, r, http.StatusInternalServerError, "Impossible de générer le graphique.")
}

func (s *Server) respondSVG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// decodeCourseParam reads the course code from the chart file name. chi matches
// on RawPath when the request has one, so only then is the parameter still escaped.
func decodeCourseParam(r *http.Request) (domain.CourseCode, error) {
	raw := chi.URLParam(r, "file")
	if !strings.HasSuffix(raw, ".svg") {
		return "", errors.New("course chart must end in .svg")
	}
	code := strings.TrimSuffix(raw, ".svg")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(code)
		if err != nil {
			return "", fmt.Errorf("invalid course parameter: %w", err)
		}
		code = unescaped
	}
	if code == "" {
		return "", errors.New("empty course parameter")
	}
	return domain.CourseCode(code), nil
}
