package lookup

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"gorm.io/datatypes"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	recentLimit     = 5
)

// Store is the subset of the case record store the service needs.
type Store interface {
	Insert(ctx context.Context, q *database.CaseQuery) (uint, error)
	Get(ctx context.Context, id uint) (*database.CaseQuery, error)
	ListRecent(ctx context.Context, limit, offset int) ([]database.CaseQuery, error)
	ListRecentSuccessful(ctx context.Context, limit int) ([]database.CaseQuery, error)
	Count(ctx context.Context) (int64, error)
	InsertDownload(ctx context.Context, d *database.PDFDownload) (uint, error)
	ListDownloads(ctx context.Context, caseQueryID uint) ([]database.PDFDownload, error)
	Ping(ctx context.Context) error
}

// SearchRequest is a case lookup as submitted by a user.
type SearchRequest struct {
	CaseType   string `json:"case_type" form:"case_type"`
	CaseNumber string `json:"case_number" form:"case_number"`
	FilingYear int    `json:"filing_year" form:"filing_year"`
}

func (r SearchRequest) caseRequest() scraper.CaseRequest {
	return scraper.CaseRequest{
		CaseType:   r.CaseType,
		CaseNumber: r.CaseNumber,
		FilingYear: r.FilingYear,
	}.Normalize()
}

// Outcome is the result of one recorded search.
type Outcome struct {
	QueryID      uint                `json:"query_id"`
	Success      bool                `json:"success"`
	Result       *scraper.CaseResult `json:"result,omitempty"`
	ErrorKind    Kind                `json:"error_kind,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	FromCache    bool                `json:"from_cache"`
}

// HistoryPage is one page of the search history, newest first.
type HistoryPage struct {
	Queries []database.CaseQuery `json:"queries"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// Service coordinates court lookups and their audit trail.
type Service struct {
	store    Store
	client   scraper.Client
	cache    cache.Cache
	now      func() time.Time
	pageSize int
	logger   *logger.Logger
}

type Option func(*Service)

// WithCache enables reuse of recent successful results.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPageSize sets the default history page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = min(n, maxPageSize)
		}
	}
}

func NewService(store Store, client scraper.Client, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		client:   client,
		now:      time.Now,
		pageSize: defaultPageSize,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitSearch runs one lookup. Invalid input is rejected before the court
// site is contacted and leaves no record. Every other submission writes
// exactly one CaseQuery row. A failed lookup returns both the Outcome and
// an *Error carrying the recorded query id.
func (s *Service) SubmitSearch(ctx context.Context, in SearchRequest) (*Outcome, error) {
	req := in.caseRequest()
	if err := scraper.ValidateRequest(req, s.now()); err != nil {
		s.logger.Info("Rejected case search", "case", req.String(), "error", err)
		return nil, newError(KindInvalidInput, 0, err)
	}

	var (
		result    *scraper.CaseResult
		raw       string
		searchErr error
		fromCache bool
	)

	key := cache.GenerateCacheKey(req.CaseType, req.CaseNumber, req.FilingYear)
	if s.cache != nil {
		if entry, ok := s.cache.Get(key); ok {
			s.logger.Info("Cache hit", "key", key)
			result, raw, fromCache = entry.Result, entry.Raw, true
		}
	}
	if !fromCache {
		result, raw, searchErr = s.client.Search(ctx, req)
	}

	kind := KindOf(searchErr)
	if kind == KindInvalidInput {
		return nil, newError(kind, 0, searchErr)
	}

	q := &database.CaseQuery{
		CaseType:       req.CaseType,
		CaseNumber:     req.CaseNumber,
		FilingYear:     req.FilingYear,
		QueryTimestamp: s.now().UTC(),
	}
	if raw != "" {
		q.RawResponse = &raw
	}
	if searchErr == nil {
		fillResult(q, result)
	} else {
		q.ErrorKind = string(kind)
		q.ErrorMessage = kind.Message()
	}

	// The audit row is written even when the caller has gone away.
	id, err := s.store.Insert(context.WithoutCancel(ctx), q)
	if err != nil {
		s.logger.Error("Failed to record case query", "case", req.String(), "error", err)
		return nil, newError(KindStorage, 0, err)
	}

	outcome := &Outcome{QueryID: id, FromCache: fromCache}
	if searchErr != nil {
		s.logger.Warn("Case search failed",
			"query_id", id,
			"case", req.String(),
			"kind", string(kind),
			"error", searchErr,
		)
		outcome.ErrorKind = kind
		outcome.ErrorMessage = kind.Message()
		return outcome, newError(kind, id, searchErr)
	}

	outcome.Success = true
	outcome.Result = result
	if s.cache != nil && !fromCache {
		if err := s.cache.Set(key, &cache.Entry{Result: result, Raw: raw, FetchedAt: q.QueryTimestamp}); err != nil {
			s.logger.Warn("Failed to cache result", "key", key, "error", err)
		}
	}

	s.logger.Info("Case search recorded", "query_id", id, "case", req.String(), "from_cache", fromCache)
	return outcome, nil
}

func fillResult(q *database.CaseQuery, r *scraper.CaseResult) {
	q.Success = true
	status := r.Status
	q.CaseStatus = &status
	if r.Parties != "" {
		parties := r.Parties
		q.PartiesName = &parties
	}
	q.FilingDate = r.FilingDate
	q.NextHearingDate = r.NextHearing
	if len(r.PDFLinks) > 0 {
		q.PDFLinks = datatypes.NewJSONSlice(slices.Clone(r.PDFLinks))
	}
}

// GetQuery returns a recorded search.
func (s *Service) GetQuery(ctx context.Context, id uint) (*database.CaseQuery, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, newError(KindOf(err), 0, err)
	}
	return q, nil
}

// ListHistory returns recorded searches newest first. A non-positive limit
// selects the default page size; limits above 100 are capped.
func (s *Service) ListHistory(ctx context.Context, limit, offset int) (*HistoryPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	limit = min(limit, maxPageSize)
	offset = max(offset, 0)

	queries, err := s.store.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, newError(KindOf(err), 0, err)
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, newError(KindOf(err), 0, err)
	}
	if queries == nil {
		queries = []database.CaseQuery{}
	}

	return &HistoryPage{
		Queries: queries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// PageSize is the default history page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// ListRecentSuccessful returns the five newest successful searches.
func (s *Service) ListRecentSuccessful(ctx context.Context) ([]database.CaseQuery, error) {
	queries, err := s.store.ListRecentSuccessful(ctx, recentLimit)
	if err != nil {
		return nil, newError(KindOf(err), 0, err)
	}
	if queries == nil {
		queries = []database.CaseQuery{}
	}
	return queries, nil
}

// ListDownloads returns the download attempts of a recorded search.
func (s *Service) ListDownloads(ctx context.Context, queryID uint) ([]database.PDFDownload, error) {
	if _, err := s.GetQuery(ctx, queryID); err != nil {
		return nil, err
	}
	downloads, err := s.store.ListDownloads(ctx, queryID)
	if err != nil {
		return nil, newError(KindOf(err), queryID, err)
	}
	if downloads == nil {
		downloads = []database.PDFDownload{}
	}
	return downloads, nil
}

// DownloadDocument fetches one of the PDF links recorded for a search and
// appends a PDFDownload row describing the attempt. URLs that are not among
// the search's links are rejected without a row.
func (s *Service) DownloadDocument(ctx context.Context, queryID uint, url string) (*scraper.Document, error) {
	q, err := s.GetQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains([]string(q.PDFLinks), url) {
		return nil, newError(KindInvalidInput, queryID,
			fmt.Errorf("%w: %q is not a document of query %d", scraper.ErrInvalidInput, url, queryID))
	}

	doc, fetchErr := s.client.Document(ctx, url)

	row := &database.PDFDownload{
		CaseQueryID:       queryID,
		SourceURL:         url,
		DownloadTimestamp: s.now().UTC(),
		Success:           fetchErr == nil,
	}
	if fetchErr == nil {
		size := doc.Size
		row.ByteSize = &size
		row.PageCount = doc.Pages
	}

	if _, err := s.store.InsertDownload(context.WithoutCancel(ctx), row); err != nil {
		s.logger.Error("Failed to record download", "query_id", queryID, "url", url, "error", err)
		return nil, newError(KindStorage, queryID, err)
	}

	if fetchErr != nil {
		kind := KindOf(fetchErr)
		s.logger.Warn("Document download failed", "query_id", queryID, "url", url, "kind", string(kind), "error", fetchErr)
		return nil, newError(kind, queryID, fetchErr)
	}

	s.logger.Info("Document downloaded", "query_id", queryID, "url", url, "size", doc.Size)
	return doc, nil
}

// CaseTypes lists the case type codes accepted by SubmitSearch.
func (s *Service) CaseTypes() []string {
	return scraper.CaseTypes()
}

// CacheStats reports the result cache, if one is configured.
func (s *Service) CacheStats() (cache.CacheStats, bool) {
	if s.cache == nil {
		return cache.CacheStats{}, false
	}
	return s.cache.Stats(), true
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return newError(KindStorage, 0, err)
	}
	return nil
}
