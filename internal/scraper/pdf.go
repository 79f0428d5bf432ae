package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxDocumentSize caps a single PDF download.
const MaxDocumentSize = 50 << 20

// PDFDownloader fetches court documents over HTTP
type PDFDownloader struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	retrier   Retrier
	logger    *logger.Logger
}

// NewPDFDownloader creates a new PDF downloader
func NewPDFDownloader(timeout time.Duration, userAgent string, retrier Retrier, log *logger.Logger) *PDFDownloader {
	return &PDFDownloader{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout:   timeout,
		userAgent: userAgent,
		retrier:   retrier,
		logger:    log,
	}
}

// Download fetches rawURL, retrying transient network failures. The whole
// call, retries included, is bounded by the download timeout.
func (d *PDFDownloader) Download(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an http(s) URL: %q", ErrInvalidInput, rawURL)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var doc *Document
	err = d.retrier.Do(ctx, "download document", func(ctx context.Context) error {
		var err error
		doc, err = d.downloadOnce(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("PDF downloaded successfully",
		"url", rawURL,
		"size", doc.Size,
	)
	return doc, nil
}

func (d *PDFDownloader) downloadOnce(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: document %s: %s", ErrNotFound, rawURL, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "pdf") && !strings.HasSuffix(strings.ToLower(path.Base(req.URL.Path)), ".pdf") {
		return nil, fmt.Errorf("%w: URL does not point to a PDF file (content type %q)", ErrNotFound, contentType)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(content) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: document larger than %d bytes", ErrNotFound, MaxDocumentSize)
	}

	if contentType == "" {
		contentType = "application/pdf"
	}

	return &Document{
		URL:         rawURL,
		Filename:    filenameFromURL(rawURL),
		ContentType: contentType,
		Content:     content,
		Size:        int64(len(content)),
		Pages:       countPages(content),
	}, nil
}

var disablePDFConfigDir sync.Once

// countPages reads the PDF structure and returns its page count, or nil
// when pdfcpu cannot read it. pdfcpu runs with its in-memory default
// configuration and never touches the user config directory.
func countPages(content []byte) (pages *int) {
	disablePDFConfigDir.Do(api.DisableConfigDir)

	defer func() {
		// pdfcpu panics on some malformed inputs
		if recover() != nil {
			pages = nil
		}
	}()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil || ctx == nil {
		return nil
	}
	n := ctx.PageCount
	return &n
}

// filenameFromURL extracts a filename from the URL, generating one when the
// path has no PDF name.
func filenameFromURL(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" || !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = fmt.Sprintf("court_document_%d.pdf", time.Now().Unix())
	}
	return name
}
