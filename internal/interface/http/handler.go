package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
	"github.com/yanqian/lawn-advisor/pkg/metrics"
	"github.com/yanqian/lawn-advisor/pkg/util"
)

const (
	msgInvalidJSON         = "Invalid JSON in request body"
	msgServiceUnavailable  = "Recommendation service unavailable"
	msgRecommendationError = "An error occurred while generating recommendations"

	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// statusRule describes how a classified failure is presented to callers.
type statusRule struct {
	status      int
	code        string
	passMessage bool
}

// recommendationStatus is the only place failure kinds become HTTP responses.
// Kinds missing from the table are reported as a generic 500.
var recommendationStatus = map[recommendation.ErrorKind]statusRule{
	recommendation.KindValidation: {status: http.StatusBadRequest, code: "invalid_request", passMessage: true},
	recommendation.KindRateLimit:  {status: http.StatusTooManyRequests, code: "rate_limited", passMessage: true},
}

var defaultStatusRule = statusRule{status: http.StatusInternalServerError, code: "recommendation_failed"}

// statusFor maps a pipeline failure onto its status, code and caller-visible message.
func statusFor(err error) (int, string, string) {
	rule, ok := recommendationStatus[recommendation.KindOf(err)]
	if !ok {
		rule = defaultStatusRule
	}
	message := msgRecommendationError
	var domainErr *recommendation.Error
	if rule.passMessage && errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	return rule.status, rule.code, message
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommendSvc recommendation.Service
	outcomes     recommendation.OutcomeLog
	metrics      *metrics.Recorder
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc recommendation.Service, outcomes recommendation.OutcomeLog, recorder *metrics.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		recommendSvc: svc,
		outcomes:     outcomes,
		metrics:      recorder,
		logger:       logger.With("component", "http.handler"),
	}
}

// Recommend returns lawn care recommendations for a profile and current conditions.
func (h *Handler) Recommend(c *gin.Context) {
	start := time.Now()

	req, err := decodeRecommendationRequest(c)
	if err != nil {
		h.finish(c, start, http.StatusBadRequest, "", recommendation.Result{})
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_json", msgInvalidJSON, err))
		return
	}

	result, err := h.recommendSvc.GenerateRecommendation(c.Request.Context(), req)
	if err != nil {
		status, code, message := statusFor(err)
		h.finish(c, start, status, recommendation.KindOf(err), result)
		abortWithError(c, NewHTTPError(status, code, message, err))
		return
	}

	if result.Text == "" {
		h.finish(c, start, http.StatusServiceUnavailable, "", result)
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "recommendation_unavailable", msgServiceUnavailable, nil))
		return
	}

	h.finish(c, start, http.StatusOK, "", result)
	c.JSON(http.StatusOK, gin.H{"recommendations": result.Text})
}

// decodeRecommendationRequest rejects anything but exactly one JSON value,
// so trailing bytes after a valid object count as invalid JSON.
func decodeRecommendationRequest(c *gin.Context) (recommendation.Request, error) {
	var req recommendation.Request
	raw, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, err
	}
	return req, nil
}

// RecentOutcomes lists the latest recorded request outcomes.
func (h *Handler) RecentOutcomes(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a positive integer", err))
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	items, err := h.outcomes.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "request_log_failed", "failed to load request log", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcomes": items})
}

// Health reports liveness and whether an upstream credential is configured.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"configured": h.recommendSvc.Configured(),
	})
}

// Metrics serves the Prometheus registry.
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// finish records metrics and the request log entry. Failures to persist the
// outcome never change the response.
func (h *Handler) finish(c *gin.Context, start time.Time, status int, kind recommendation.ErrorKind, result recommendation.Result) {
	elapsed := time.Since(start)
	h.metrics.ObserveRequest(status, string(kind), elapsed)
	if !result.Cached {
		h.metrics.ObserveUsage(result.Usage)
	}

	outcome := recommendation.Outcome{
		ID:        requestIDFrom(c),
		Status:    status,
		Kind:      kind,
		Model:     result.Model,
		Cached:    result.Cached,
		LatencyMs: elapsed.Milliseconds(),
		CreatedAt: util.NowUTC(),
	}
	if claims, ok := getClaims(c); ok {
		outcome.UserID = claims.UserID
	}
	if err := h.outcomes.Record(c.Request.Context(), outcome); err != nil {
		h.logger.Warn("record outcome failed", "request_id", outcome.ID, "error", err)
	}
}
