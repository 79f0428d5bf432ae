package scraper

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

const demoResultPage = `<html>
<head><title>Case Status</title></head>
<body>
<div class="case-details">
	<h3>Case Details for %[1]s</h3>
	<p><strong>Petitioner:</strong> Sample Petitioner</p>
	<p><strong>Respondent:</strong> Delhi State and Others</p>
	<p><strong>Filing Date:</strong> 15-01-%[2]d</p>
	<p><strong>Next Hearing:</strong> 25-08-2025</p>
	<p><strong>Status:</strong> Matter pending for arguments</p>
	<div class="documents">
		<a href="sample-order-1.pdf">Interim Order dated 20-07-2025</a>
		<a href="sample-judgment.pdf">Final Judgment dated 01-08-2025</a>
	</div>
</div>
</body>
</html>`

// demoPDF is a one-page PDF with no content stream and empty resources.
const demoPDF = "%PDF-1.4\n" +
	"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
	"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
	"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n" +
	"xref\n0 4\n" +
	"0000000000 65535 f \n" +
	"0000000009 00000 n \n" +
	"0000000058 00000 n \n" +
	"0000000115 00000 n \n" +
	"trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n203\n%%EOF\n"

// DemoClient serves canned case data instead of scraping the portal.
type DemoClient struct {
	baseURL string
	parser  *Parser
	logger  *logger.Logger
}

// NewDemoClient creates a demo client whose document links point under
// baseURL.
func NewDemoClient(baseURL string, log *logger.Logger) *DemoClient {
	return &DemoClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/app/",
		parser:  NewParser(),
		logger:  log,
	}
}

// Search renders the sample result page for req and parses it.
func (c *DemoClient) Search(ctx context.Context, req CaseRequest) (*CaseResult, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSiteUnavailable, err)
	}

	req = req.Normalize()
	if err := ValidateRequest(req, time.Now()); err != nil {
		return nil, "", err
	}

	c.logger.Info("Using demonstration mode with sample case data", "case", req.String())

	raw := fmt.Sprintf(demoResultPage, html.EscapeString(req.String()), req.FilingYear)
	result, err := c.parser.Parse(raw, c.baseURL)
	if err != nil {
		return nil, raw, fmt.Errorf("%w: %v", ErrSiteUnavailable, err)
	}
	return result, raw, nil
}

// Document returns the sample PDF for any URL.
func (c *DemoClient) Document(ctx context.Context, url string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSiteUnavailable, err)
	}

	content := []byte(demoPDF)
	return &Document{
		URL:         url,
		Filename:    filenameFromURL(url),
		ContentType: "application/pdf",
		Content:     content,
		Size:        int64(len(content)),
		Pages:       countPages(content),
	}, nil
}

// Close is a no-op.
func (c *DemoClient) Close() error {
	return nil
}
