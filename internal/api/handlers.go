package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	svc    *lookup.Service
	logger *logger.Logger
	cfg    *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *lookup.Service, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: logger,
		cfg:    cfg,
	}
}

// SearchCase handles a case search submitted as JSON or form data
func (h *Handlers) SearchCase(c *gin.Context) {
	var req lookup.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Info("Invalid search request", "error", err)
		h.fail(c, lookup.KindInvalidInput, 0)
		return
	}

	outcome, err := h.svc.SubmitSearch(c.Request.Context(), req)
	if err != nil {
		var queryID uint
		if outcome != nil {
			queryID = outcome.QueryID
		}
		h.fail(c, lookup.KindOf(err), queryID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"query_id":   outcome.QueryID,
		"from_cache": outcome.FromCache,
		"data":       outcome.Result,
	})
}

// GetQuery returns one recorded search. raw=1 adds the upstream body.
func (h *Handlers) GetQuery(c *gin.Context) {
	id, ok := h.queryID(c)
	if !ok {
		return
	}

	q, err := h.svc.GetQuery(c.Request.Context(), id)
	if err != nil {
		h.fail(c, lookup.KindOf(err), id)
		return
	}

	resp := gin.H{
		"success": true,
		"data":    q,
	}
	if raw, _ := strconv.ParseBool(c.DefaultQuery("raw", "false")); raw && q.RawResponse != nil {
		resp["raw_response"] = *q.RawResponse
	}
	c.JSON(http.StatusOK, resp)
}

// ListQueries returns the search history, newest first
func (h *Handlers) ListQueries(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		h.fail(c, lookup.KindInvalidInput, 0)
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		h.fail(c, lookup.KindInvalidInput, 0)
		return
	}
	page, err := intQuery(c, "page", 0)
	if err != nil {
		h.fail(c, lookup.KindInvalidInput, 0)
		return
	}
	if page > maxHistoryPage {
		h.fail(c, lookup.KindInvalidInput, 0)
		return
	}
	if page > 0 {
		size := limit
		if size <= 0 {
			size = h.svc.PageSize()
		}
		offset = (page - 1) * size
	}

	history, err := h.svc.ListHistory(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, lookup.KindOf(err), 0)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history.Queries,
		"pagination": gin.H{
			"limit":  history.Limit,
			"offset": history.Offset,
			"total":  history.Total,
		},
	})
}

// ListDownloads returns the download attempts of a search
func (h *Handlers) ListDownloads(c *gin.Context) {
	id, ok := h.queryID(c)
	if !ok {
		return
	}

	downloads, err := h.svc.ListDownloads(c.Request.Context(), id)
	if err != nil {
		h.fail(c, lookup.KindOf(err), id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    downloads,
	})
}

// DownloadDocument streams one of a search's PDF documents
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, ok := h.queryID(c)
	if !ok {
		return
	}
	url := c.Query("url")
	if url == "" {
		h.fail(c, lookup.KindInvalidInput, id)
		return
	}

	doc, err := h.svc.DownloadDocument(c.Request.Context(), id, url)
	if err != nil {
		h.fail(c, lookup.KindOf(err), id)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// RecentSearches returns the newest successful searches
func (h *Handlers) RecentSearches(c *gin.Context) {
	recent, err := h.svc.ListRecentSuccessful(c.Request.Context())
	if err != nil {
		h.fail(c, lookup.KindOf(err), 0)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recent,
	})
}

// CaseTypes lists the case types a search accepts
func (h *Handlers) CaseTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"court":      h.cfg.CourtName,
		"case_types": h.svc.CaseTypes(),
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbHealthy := h.svc.Ping(c.Request.Context()) == nil

	status, code := "healthy", http.StatusOK
	if !dbHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"database":     dbHealthy,
		"court_client": h.cfg.CourtClient,
		"time":         time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	stats, enabled := h.svc.CacheStats()
	resp := gin.H{
		"success": true,
		"enabled": enabled,
	}
	if enabled {
		resp["stats"] = stats
	}
	c.JSON(http.StatusOK, resp)
}

// fail writes the user-facing message for kind. Causes are logged by the
// service and never returned.
func (h *Handlers) fail(c *gin.Context, kind lookup.Kind, queryID uint) {
	resp := gin.H{
		"success":    false,
		"error_kind": kind,
		"error":      kind.Message(),
	}
	if queryID != 0 {
		resp["query_id"] = queryID
	}
	c.JSON(StatusFor(kind), resp)
}

func (h *Handlers) queryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"error_kind": lookup.KindInvalidInput,
			"error":      "Invalid query ID",
		})
		return 0, false
	}
	return uint(id), true
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind lookup.Kind) int {
	switch kind {
	case lookup.KindInvalidInput:
		return http.StatusBadRequest
	case lookup.KindNotFound:
		return http.StatusNotFound
	case lookup.KindSiteUnavailable:
		return http.StatusBadGateway
	case lookup.KindChallengeBlocked:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// maxHistoryPage keeps (page-1)*size well inside int range.
const maxHistoryPage = 1_000_000

var errNegative = errors.New("must not be negative")

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: %w", name, errNegative)
	}
	return n, nil
}
