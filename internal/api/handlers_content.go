package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkeller/folio/internal/content"
)

// ContentHandler serves the CMS-authored documents.
type ContentHandler struct {
	svc *content.Service
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(svc *content.Service) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// etagMatch writes the snapshot ETag and reports whether the client already
// holds the current version (304 written).
func (h *ContentHandler) etagMatch(w http.ResponseWriter, r *http.Request) bool {
	tag := `"` + h.svc.ETag() + `"`
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, tag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// ListProjects handles GET /api/v1/projects.
func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	projects := h.svc.Projects()
	if projects == nil {
		projects = []content.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    len(projects),
	})
}

// GetProject handles GET /api/v1/projects/{slug}.
func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Project(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, "project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListCertifications handles GET /api/v1/certifications.
func (h *ContentHandler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	certs := h.svc.Certifications()
	if certs == nil {
		certs = []content.Certification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"certifications": certs})
}

// ListPlaces handles GET /api/v1/places.
func (h *ContentHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	places := h.svc.Places()
	if places == nil {
		places = []content.Place{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}

// GetResume handles GET /api/v1/resume.
func (h *ContentHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	resume, err := h.svc.Resume()
	if err != nil {
		respondError(w, "resume", err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// ListPresentations handles GET /api/v1/presentations.
func (h *ContentHandler) ListPresentations(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	items := h.svc.Presentations()
	if items == nil {
		items = []content.Presentation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presentations": items})
}

// ListTalks handles GET /api/v1/talks.
func (h *ContentHandler) ListTalks(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	talks := h.svc.Talks()
	if talks == nil {
		talks = []content.Talk{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"talks": talks})
}

// ListArticles handles GET /api/v1/articles.
func (h *ContentHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	if h.etagMatch(w, r) {
		return
	}
	articles := h.svc.Articles()
	if articles == nil {
		articles = []content.ArticleSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    len(articles),
	})
}

// GetArticle handles GET /api/v1/articles/{slug}.
func (h *ContentHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Article(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, "article", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
