package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/ciap"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultShutdownTimeout bounds how long Close waits for in-flight requests.
const DefaultShutdownTimeout = 5 * time.Second

// Server exposes a catalog over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router

	catalog ciap.CatalogService
	logger  *slog.Logger

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	misses   prometheus.Counter

	// Addr is the address the server listens on, e.g. ":8080".
	Addr string
}

// NewServer creates a Server for catalog. Metrics are kept in a registry
// owned by the server.
func NewServer(catalog ciap.CatalogService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		router:   mux.NewRouter(),
		catalog:  catalog,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	factory := promauto.With(s.registry)
	s.requests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ciap_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	s.misses = factory.NewCounter(prometheus.CounterOpts{
		Name: "ciap_lookup_misses_total",
		Help: "Total code lookups that found no entry",
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ciap_catalog_entries",
		Help: "Number of entries in the served catalog",
	}, func() float64 {
		return float64(catalog.Len())
	})

	s.router.Use(s.instrument)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/ciap/codings/validate", s.handleValidateCoding).Methods("POST")
	s.router.HandleFunc("/api/ciap/{code}", s.handleLookup).Methods("GET")
	s.router.HandleFunc("/api/ciap", s.handleSearch).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	return s
}

// ServeHTTP routes a request through the server's router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr. Call Serve to accept requests.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// Serve accepts requests until the server is closed.
// A normal shutdown returns nil.
func (s *Server) Serve() error {
	if s.ln == nil {
		return ciap.Errorf(ciap.EINTERNAL, "server not open")
	}
	s.logger.Info("serving catalog", "addr", s.ln.Addr().String(), "entries", s.catalog.Len())
	if err := s.server.Serve(s.ln); err != nil && !isServerClosed(err) {
		return err
	}
	return nil
}

// URL returns the base URL of a running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "entries": s.catalog.Len()})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	entry, ok := s.catalog.Lookup(code)
	if !ok {
		s.misses.Inc()
		s.Error(w, r, ciap.Errorf(ciap.ENOTFOUND, "code %s not found", ciap.NormalizeCode(code)))
		return
	}
	s.writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var limit int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.Error(w, r, ciap.Errorf(ciap.EINVALID, "invalid limit %q", v))
			return
		}
		limit = n
	}

	entries := s.catalog.Search(q.Get("q"), limit)

	if v := q.Get("component"); v != "" {
		c, err := ciap.ParseComponent(v)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		entries = ciap.FilterComponent(entries, c)
	}

	s.writeJSON(w, r, http.StatusOK, entries)
}

// codingResult is the response body of the coding validation endpoint.
type codingResult struct {
	Valid      bool                   `json:"valid"`
	Violations []ciap.CodingViolation `json:"violations"`
}

func (s *Server) handleValidateCoding(w http.ResponseWriter, r *http.Request) {
	var coding ciap.Coding
	if err := json.NewDecoder(r.Body).Decode(&coding); err != nil {
		s.Error(w, r, ciap.Errorf(ciap.EINVALID, "invalid coding body: %v", err))
		return
	}

	violations := coding.Violations()
	violations = append(violations, s.unknownCodes("ciapRfe", coding.RFE)...)
	violations = append(violations, s.unknownCodes("ciapProcedimentos", coding.Procedures)...)
	violations = append(violations, s.unknownCodes("ciapDiagnosticos", coding.Diagnoses)...)
	if violations == nil {
		violations = []ciap.CodingViolation{}
	}

	s.writeJSON(w, r, http.StatusOK, codingResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// unknownCodes reports well-formed codes that are absent from the catalog.
func (s *Server) unknownCodes(field string, codes []string) []ciap.CodingViolation {
	var out []ciap.CodingViolation
	for _, code := range codes {
		if !ciap.ValidCode(code) {
			continue
		}
		if _, ok := s.catalog.Lookup(code); !ok {
			out = append(out, ciap.CodingViolation{Field: field, Code: code, Message: "code not in catalog"})
		}
	}
	return out
}

// Error writes err as a JSON error response with a status derived from its code.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ciap.ErrorCode(err), ciap.ErrorMessage(err)
	if code == ciap.EINTERNAL {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, r, errorStatus(code), map[string]string{"error": message})
}

func errorStatus(code string) int {
	switch code {
	case ciap.EINVALID, ciap.EVIOLATION:
		return http.StatusBadRequest
	case ciap.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Error("write response failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

// instrument counts requests by route template and response status.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// isServerClosed reports whether err signals a normal shutdown.
func isServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}
