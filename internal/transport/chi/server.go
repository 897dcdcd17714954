// Package chi exposes the query subsystem over HTTP: record indexing,
// search, guide trees, and class administration.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/domain"
	"github.com/indu-doc/tagdex/internal/metrics"
	"github.com/indu-doc/tagdex/internal/querylang"
	guideuc "github.com/indu-doc/tagdex/internal/usecase/guide"
	indexuc "github.com/indu-doc/tagdex/internal/usecase/index"
	searchuc "github.com/indu-doc/tagdex/internal/usecase/search"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeQuerySyntax      = "query_syntax_error"
	codeClassNotFound    = "class_not_found"
	codeInternalError    = "internal_error"
)

// ClassAdmin covers the class-level administration the HTTP surface
// needs beyond the use cases. Satisfied by the entity store.
type ClassAdmin interface {
	Drop(class string) bool
	Classes() []string
	Stats() map[string]int
}

// Limits bounds request sizes.
type Limits struct {
	MaxBatchSize   int
	MaxQueryLength int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API server.
type Server struct {
	index         *indexuc.Service
	search        *searchuc.Service
	guide         *guideuc.Service
	admin         ClassAdmin
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	index *indexuc.Service,
	search *searchuc.Service,
	guide *guideuc.Service,
	admin ClassAdmin,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.MaxBatchSize <= 0 {
		limits.MaxBatchSize = 1000
	}
	if limits.MaxQueryLength <= 0 {
		limits.MaxQueryLength = 4096
	}
	s := &Server{
		index:  index,
		search: search,
		guide:  guide,
		admin:  admin,
		limits: limits,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		syntaxErrorHandler,
		sentinelHandler(domain.ErrClassNotFound, http.StatusNotFound, codeClassNotFound),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeClassNotFound),
	}
	return s
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chirouter.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/classes", func(r chirouter.Router) {
		r.Get("/", s.listClasses)
		r.Route("/{class}", func(r chirouter.Router) {
			r.Delete("/", s.dropClass)
			r.Get("/search", s.searchClass)
			r.Get("/guide", s.guideClass)
			r.Put("/records/{id}", s.putRecord)
			r.Post("/records", s.postRecords)
		})
	})
	return r
}

// putRecord handles PUT /classes/{class}/records/{id}. The body is the
// record's nested structure itself.
func (s *Server) putRecord(w http.ResponseWriter, r *http.Request) {
	class := chirouter.URLParam(r, "class")
	id := chirouter.URLParam(r, "id")

	var source any
	if err := json.NewDecoder(r.Body).Decode(&source); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.index.Index(r.Context(), class, id, source); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// batchItem is one element of the bulk indexing body.
type batchItem struct {
	ID     string `json:"id"`
	Record any    `json:"record"`
}

// postRecords handles POST /classes/{class}/records.
func (s *Server) postRecords(w http.ResponseWriter, r *http.Request) {
	class := chirouter.URLParam(r, "class")

	var items []batchItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(items) == 0 || len(items) > s.limits.MaxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("records count must be between 1 and %d", s.limits.MaxBatchSize))
		return
	}

	batch := make([]indexuc.Item, len(items))
	for i, item := range items {
		batch[i] = indexuc.Item{ID: item.ID, Source: item.Record}
	}

	stored, err := s.index.IndexBatch(r.Context(), class, batch)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    codeValidationFailed,
			"message": err.Error(),
			"stored":  stored,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"stored": stored})
}

// searchClass handles GET /classes/{class}/search?q=...
func (s *Server) searchClass(w http.ResponseWriter, r *http.Request) {
	class := chirouter.URLParam(r, "class")
	q := r.URL.Query().Get("q")
	if len(q) > s.limits.MaxQueryLength {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("query length must not exceed %d", s.limits.MaxQueryLength))
		return
	}

	ids, err := s.search.Search(r.Context(), class, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ids":   ids,
		"count": len(ids),
	})
}

// guideClass handles GET /classes/{class}/guide.
func (s *Server) guideClass(w http.ResponseWriter, r *http.Request) {
	class := chirouter.URLParam(r, "class")

	tree, err := s.guide.Build(r.Context(), class)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// dropClass handles DELETE /classes/{class}.
func (s *Server) dropClass(w http.ResponseWriter, r *http.Request) {
	class := chirouter.URLParam(r, "class")
	if !s.admin.Drop(class) {
		writeError(w, http.StatusNotFound, codeClassNotFound, domain.ErrClassNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listClasses handles GET /classes.
func (s *Server) listClasses(w http.ResponseWriter, r *http.Request) {
	stats := s.admin.Stats()
	classes := s.admin.Classes()
	items := make([]map[string]any, len(classes))
	for i, c := range classes {
		items[i] = map[string]any{"name": c, "records": stats[c]}
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": items})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("request error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// syntaxErrorHandler maps query syntax errors to 400 with the offending
// fragment and position.
func syntaxErrorHandler(w http.ResponseWriter, err error) bool {
	var se *querylang.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":     codeQuerySyntax,
		"message":  se.Msg,
		"fragment": se.Fragment,
		"position": se.Pos,
	})
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
