package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/financial-scores/src/models"
	"github.com/jiaming2012/financial-scores/src/services"
)

type ZScoreProvider interface {
	Get(ctx context.Context, tickers []string, refresh bool) (*services.ZScoreSnapshot, *services.SyncStats, error)
	GetOne(ctx context.Context, ticker string) (*models.ZScoreDTO, error)
	Refresh(ctx context.Context) (*services.SyncStats, error)
}

type FScoreProvider interface {
	Get(ctx context.Context, tickers []string, refresh bool) (*services.FScoreSnapshot, *services.SyncStats, error)
	GetOne(ctx context.Context, ticker string) (*models.FScoreDTO, error)
	Refresh(ctx context.Context) (*services.SyncStats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the score endpoints under /admin/sheet plus the liveness and
// health endpoints.
type Handler struct {
	zscores ZScoreProvider
	fscores FScoreProvider
	db      Pinger
	appName string
	version string
}

func NewHandler(zscores ZScoreProvider, fscores FScoreProvider, db Pinger, appName string, version string) *Handler {
	return &Handler{
		zscores: zscores,
		fscores: fscores,
		db:      db,
		appName: appName,
		version: version,
	}
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type listQuery struct {
	Refresh *bool    `schema:"refresh"`
	Tickers []string `schema:"tickers"`
}

type listResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data"`
	TotalCount  int         `json:"total_count"`
	LastUpdated *time.Time  `json:"last_updated"`
}

type refreshResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Stats     *services.SyncStats `json:"stats"`
	Timestamp time.Time           `json:"timestamp"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Details   string `json:"details,omitempty"`
}

func setResponse(response interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("setResponse: encode: %v", err)
	}
}

func setErrorResponse(statusCode int, errorCode string, message string, err error, w http.ResponseWriter) {
	resp := &errorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: errorCode,
	}

	if err != nil {
		resp.Details = err.Error()
	}

	setResponse(resp, statusCode, w)
}

// setSyncErrorResponse maps the sync error taxonomy onto HTTP statuses. A
// failed refresh never discards cached data, so the envelope is the only
// thing the caller sees change.
func setSyncErrorResponse(err error, w http.ResponseWriter) {
	var sourceErr *models.SourceUnavailableError
	if errors.As(err, &sourceErr) {
		setErrorResponse(http.StatusServiceUnavailable, "SHEETS_API_ERROR", "Failed to fetch data from Google Sheets", err, w)
		return
	}

	var schemaErr *models.SchemaMismatchError
	if errors.As(err, &schemaErr) {
		setErrorResponse(http.StatusBadGateway, "SHEETS_SCHEMA_ERROR", "Unexpected sheet format", err, w)
		return
	}

	setErrorResponse(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err, w)
}

func parseListQuery(r *http.Request) (*listQuery, error) {
	var q listQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return nil, err
	}

	return &q, nil
}

// refresh defaults to true: an unqualified GET is also a source sync. That is
// the documented contract, preserved as-is.
func (q *listQuery) refresh() bool {
	if q.Refresh == nil {
		return true
	}

	return *q.Refresh
}

// tickers accepts both repeated keys and one comma-separated value.
func (q *listQuery) tickers() []string {
	var out []string
	for _, value := range q.Tickers {
		for _, ticker := range strings.Split(value, ",") {
			if ticker != "" {
				out = append(out, ticker)
			}
		}
	}

	return out
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	setResponse(map[string]interface{}{
		"status":      "healthy",
		"application": h.appName,
		"version":     h.version,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK, w)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	statusCode := http.StatusOK
	status := "healthy"

	if err := h.db.Ping(r.Context()); err != nil {
		log.Errorf("health: database ping failed: %v", err)
		database = "unreachable"
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	setResponse(map[string]interface{}{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, statusCode, w)
}

func (h *Handler) handleListZScores(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		setErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameter", err, w)
		return
	}

	snapshot, _, err := h.zscores.Get(r.Context(), q.tickers(), q.refresh())
	if err != nil {
		setSyncErrorResponse(err, w)
		return
	}

	message := "Cached data returned"
	if q.refresh() {
		message = "Data fetched successfully"
	}

	setResponse(&listResponse{
		Success:     true,
		Message:     message,
		Data:        snapshot.Records,
		TotalCount:  snapshot.TotalCount,
		LastUpdated: snapshot.LastUpdated,
	}, http.StatusOK, w)
}

func (h *Handler) handleGetZScore(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	record, err := h.zscores.GetOne(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			setErrorResponse(http.StatusNotFound, "NOT_FOUND", "Z-Score data not found for ticker: "+ticker, nil, w)
			return
		}

		setErrorResponse(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err, w)
		return
	}

	setResponse(record, http.StatusOK, w)
}

func (h *Handler) handleRefreshZScores(w http.ResponseWriter, r *http.Request) {
	stats, err := h.zscores.Refresh(r.Context())
	if err != nil {
		setSyncErrorResponse(err, w)
		return
	}

	setResponse(&refreshResponse{
		Success:   true,
		Message:   "Z-Score data refreshed successfully",
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	}, http.StatusOK, w)
}

func (h *Handler) handleListFScores(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		setErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameter", err, w)
		return
	}

	snapshot, _, err := h.fscores.Get(r.Context(), q.tickers(), q.refresh())
	if err != nil {
		setSyncErrorResponse(err, w)
		return
	}

	message := "Cached data returned"
	if q.refresh() {
		message = "Data fetched successfully"
	}

	setResponse(&listResponse{
		Success:     true,
		Message:     message,
		Data:        snapshot.Records,
		TotalCount:  snapshot.TotalCount,
		LastUpdated: snapshot.LastUpdated,
	}, http.StatusOK, w)
}

func (h *Handler) handleGetFScore(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	record, err := h.fscores.GetOne(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			setErrorResponse(http.StatusNotFound, "NOT_FOUND", "F-Score data not found for ticker: "+ticker, nil, w)
			return
		}

		setErrorResponse(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err, w)
		return
	}

	setResponse(record, http.StatusOK, w)
}

func (h *Handler) handleRefreshFScores(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fscores.Refresh(r.Context())
	if err != nil {
		setSyncErrorResponse(err, w)
		return
	}

	setResponse(&refreshResponse{
		Success:   true,
		Message:   "F-Score data refreshed successfully",
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	}, http.StatusOK, w)
}

// SetupHandler registers all routes on the given router.
func SetupHandler(router *mux.Router, h *Handler) {
	router.Use(corsMiddleware)

	router.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	admin := router.PathPrefix("/admin/sheet").Subrouter()

	zscore := admin.PathPrefix("/z-score").Subrouter()
	zscore.HandleFunc("", h.handleListZScores).Methods(http.MethodGet)
	zscore.HandleFunc("/refresh", h.handleRefreshZScores).Methods(http.MethodPost)
	zscore.HandleFunc("/{ticker}", h.handleGetZScore).Methods(http.MethodGet)

	fscore := admin.PathPrefix("/f-score").Subrouter()
	fscore.HandleFunc("", h.handleListFScores).Methods(http.MethodGet)
	fscore.HandleFunc("/refresh", h.handleRefreshFScores).Methods(http.MethodPost)
	fscore.HandleFunc("/{ticker}", h.handleGetFScore).Methods(http.MethodGet)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
