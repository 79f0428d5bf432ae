package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

// FetchedPage is the HTML of a case-status result page.
type FetchedPage struct {
	HTML string
	URL  string
}

// PageFetcher submits the case-status form and returns the resulting page.
type PageFetcher interface {
	FetchCaseStatus(ctx context.Context, req CaseRequest) (*FetchedPage, error)
	Close() error
}

// LiveClient scrapes the court portal through a PageFetcher.
type LiveClient struct {
	fetcher    PageFetcher
	parser     *Parser
	retrier    Retrier
	downloader *PDFDownloader
	timeout    time.Duration
	now        func() time.Time
	logger     *logger.Logger
}

// NewLiveClient wires a live client around fetcher.
func NewLiveClient(cfg *config.Config, fetcher PageFetcher, log *logger.Logger) *LiveClient {
	retrier := Retrier{
		MaxAttempts: cfg.ScraperMaxAttempts,
		Delay:       cfg.ScraperRetryDelay,
		Logger:      log,
	}
	return &LiveClient{
		fetcher:    fetcher,
		parser:     NewParser(),
		retrier:    retrier,
		downloader: NewPDFDownloader(cfg.DownloadTimeout, cfg.UserAgent, retrier, log),
		timeout:    cfg.ScraperTimeout,
		now:        time.Now,
		logger:     log,
	}
}

// Search looks the case up on the portal. The whole call, retries
// included, is bounded by the scraper timeout.
func (c *LiveClient) Search(ctx context.Context, req CaseRequest) (*CaseResult, string, error) {
	req = req.Normalize()
	if err := ValidateRequest(req, c.now()); err != nil {
		return nil, "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("Scraping case", "case", req.String())

	var (
		result *CaseResult
		raw    string
	)
	err := c.retrier.Do(ctx, "search case", func(ctx context.Context) error {
		page, err := c.fetcher.FetchCaseStatus(ctx, req)
		if page != nil {
			raw = page.HTML
		}
		if err != nil {
			return err
		}
		if page == nil {
			return errors.New("fetcher returned no page")
		}

		res, err := c.classify(page)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		c.logger.Warn("Case search failed", "case", req.String(), "error", err)
		return nil, raw, err
	}

	return result, raw, nil
}

// classify turns a fetched page into a result or a typed failure.
func (c *LiveClient) classify(page *FetchedPage) (*CaseResult, error) {
	if DetectChallenge(page.HTML) {
		return nil, fmt.Errorf("%w: captcha was not accepted", ErrChallengeBlocked)
	}

	result, err := c.parser.Parse(page.HTML, page.URL)
	if err == nil {
		return result, nil
	}
	if DetectNotFound(page.HTML) {
		return nil, fmt.Errorf("%w: court site reports no matching case", ErrNotFound)
	}
	if errors.Is(err, errUnparseable) {
		c.logger.Debug("Result page not parseable", "url", page.URL, "error", err)
	}
	return nil, err
}

// Document downloads a PDF linked from a case page.
func (c *LiveClient) Document(ctx context.Context, url string) (*Document, error) {
	return c.downloader.Download(ctx, url)
}

// Close releases the page fetcher.
func (c *LiveClient) Close() error {
	return c.fetcher.Close()
}
