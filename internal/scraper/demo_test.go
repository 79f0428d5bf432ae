package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/google/go-cmp/cmp"
)

func TestDemoClientSearch(t *testing.T) {
	c := NewDemoClient("https://delhihighcourt.nic.in/", logger.Nop())

	result, raw, err := c.Search(context.Background(), CaseRequest{CaseType: "W.P.(C)", CaseNumber: "1234", FilingYear: 2022})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if raw == "" {
		t.Error("Search() returned an empty raw page")
	}

	want := &CaseResult{
		Parties:     "Sample Petitioner vs. Delhi State and Others",
		FilingDate:  date(2022, time.January, 15),
		NextHearing: date(2025, time.August, 25),
		Status:      "Matter pending for arguments",
		PDFLinks: []string{
			"https://delhihighcourt.nic.in/app/sample-order-1.pdf",
			"https://delhihighcourt.nic.in/app/sample-judgment.pdf",
		},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestDemoClientValidates(t *testing.T) {
	c := NewDemoClient("https://delhihighcourt.nic.in", logger.Nop())

	_, _, err := c.Search(context.Background(), CaseRequest{CaseType: "CRL.A.", CaseNumber: "999", FilingYear: 1800})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Search() error = %v, want ErrInvalidInput", err)
	}
}

func TestDemoClientDocument(t *testing.T) {
	c := NewDemoClient("https://delhihighcourt.nic.in", logger.Nop())
	url := "https://delhihighcourt.nic.in/app/sample-order-1.pdf"

	doc, err := c.Document(context.Background(), url)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Filename != "sample-order-1.pdf" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if doc.Size != int64(len(doc.Content)) || doc.Size == 0 {
		t.Errorf("Size = %d, content length %d", doc.Size, len(doc.Content))
	}
	if doc.Pages == nil {
		t.Fatal("Pages = nil, want 1")
	}
	if *doc.Pages != 1 {
		t.Errorf("Pages = %d, want 1", *doc.Pages)
	}
}

func TestDemoClientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewDemoClient("https://delhihighcourt.nic.in", logger.Nop()).Search(ctx, validRequest)
	if !errors.Is(err, ErrSiteUnavailable) {
		t.Fatalf("Search() error = %v, want ErrSiteUnavailable", err)
	}
}
