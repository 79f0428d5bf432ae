package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

// CaseRequest identifies a case on the court portal.
type CaseRequest struct {
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	FilingYear int    `json:"filing_year"`
}

func (r CaseRequest) String() string {
	return fmt.Sprintf("%s %s/%d", r.CaseType, r.CaseNumber, r.FilingYear)
}

// CaseResult is the parsed case-status page.
type CaseResult struct {
	Parties     string     `json:"parties_name"`
	FilingDate  *time.Time `json:"filing_date"`
	NextHearing *time.Time `json:"next_hearing_date"`
	Status      string     `json:"case_status"`
	PDFLinks    []string   `json:"pdf_links"`
}

// Document is a downloaded court document.
type Document struct {
	URL         string
	Filename    string
	ContentType string
	Content     []byte
	Size        int64
	// Pages is nil when the PDF structure could not be read.
	Pages *int
}

// Client is the court site contract. Demo and live implementations are
// interchangeable.
type Client interface {
	// Search looks a case up. The raw response body is returned whenever
	// one was received, including on failure.
	Search(ctx context.Context, req CaseRequest) (*CaseResult, string, error)
	// Document downloads a PDF linked from a case page.
	Document(ctx context.Context, url string) (*Document, error)
	Close() error
}

// New builds the client selected by cfg.CourtClient.
func New(cfg *config.Config, log *logger.Logger) (Client, error) {
	switch cfg.CourtClient {
	case config.ClientDemo:
		log.Info("Using demonstration court client")
		return NewDemoClient(cfg.CourtBaseURL, log), nil
	case config.ClientLive:
		fetcher, err := NewRodFetcher(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewLiveClient(cfg, fetcher, log), nil
	default:
		return nil, fmt.Errorf("unknown court client %q", cfg.CourtClient)
	}
}
