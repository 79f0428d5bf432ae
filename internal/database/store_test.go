package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gorm.io/datatypes"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { Close(db) })

	return NewStore(db)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func successfulQuery(at time.Time) *CaseQuery {
	return &CaseQuery{
		CaseType:        "W.P.(C)",
		CaseNumber:      "1234",
		FilingYear:      2022,
		QueryTimestamp:  at,
		Success:         true,
		PartiesName:     strPtr("Sample Petitioner vs. Delhi State and Others"),
		FilingDate:      timePtr(time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)),
		NextHearingDate: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		CaseStatus:      strPtr("Pending"),
		RawResponse:     strPtr("<html><body>Status: Pending</body></html>"),
		PDFLinks: datatypes.NewJSONSlice([]string{
			"https://delhihighcourt.nic.in/app/order-1.pdf",
			"https://delhihighcourt.nic.in/app/judgment.pdf",
		}),
	}
}

func failedQuery(at time.Time) *CaseQuery {
	return &CaseQuery{
		CaseType:       "CRL.A.",
		CaseNumber:     "77",
		FilingYear:     2019,
		QueryTimestamp: at,
		ErrorKind:      "not_found",
		ErrorMessage:   "No case matches the given case type, number and year.",
		RawResponse:    strPtr("<html>No records found</html>"),
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query *CaseQuery
	}{
		{name: "successful query", query: successfulQuery(at)},
		{name: "failed query", query: failedQuery(at)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.Insert(ctx, tt.query)
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if id == 0 {
				t.Fatal("Insert() returned zero id")
			}

			got, err := store.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if diff := cmp.Diff(tt.query, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), 4242)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestInsertRejectsInvariantViolations(t *testing.T) {
	store := setupTestStore(t)
	at := time.Now().UTC()

	noStatus := successfulQuery(at)
	noStatus.CaseStatus = nil

	failedWithDetails := failedQuery(at)
	failedWithDetails.PartiesName = strPtr("someone")

	missingNumber := successfulQuery(at)
	missingNumber.CaseNumber = "  "

	for name, q := range map[string]*CaseQuery{
		"success without status": noStatus,
		"failure with details":   failedWithDetails,
		"missing case number":    missingNumber,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Insert(context.Background(), q); !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Insert() error = %v, want ErrInvalidRecord", err)
			}
		})
	}

	total, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 0 {
		t.Errorf("Count() = %d, want 0", total)
	}
}

func TestListRecentOrderAndIdempotence(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 5; i++ {
		q := failedQuery(base.Add(time.Duration(i) * time.Minute))
		id, err := store.Insert(ctx, q)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		ids = append(ids, id)
	}
	// Same timestamp as the newest row: the higher id must come first.
	tie := failedQuery(base.Add(4 * time.Minute))
	tieID, err := store.Insert(ctx, tie)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	first, err := store.ListRecent(ctx, 3, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	gotIDs := []uint{first[0].ID, first[1].ID, first[2].ID}
	wantIDs := []uint{tieID, ids[4], ids[3]}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Errorf("ListRecent order mismatch (-want +got):\n%s", diff)
	}

	second, err := store.ListRecent(ctx, 3, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ListRecent not idempotent (-first +second):\n%s", diff)
	}

	page, err := store.ListRecent(ctx, 3, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(page) != 3 || page[0].ID != ids[2] {
		t.Errorf("second page = %v, want to start at id %d", page, ids[2])
	}
}

func TestListRecentSuccessful(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	okID, err := store.Insert(ctx, successfulQuery(base))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := store.Insert(ctx, failedQuery(base.Add(time.Minute))); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	recent, err := store.ListRecentSuccessful(ctx, 5)
	if err != nil {
		t.Fatalf("ListRecentSuccessful() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ID != okID {
		t.Errorf("ListRecentSuccessful() = %v, want only id %d", recent, okID)
	}
}

func TestDownloads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	queryID, err := store.Insert(ctx, successfulQuery(at))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	size := int64(2048)
	pages := 3
	ok := &PDFDownload{
		CaseQueryID:       queryID,
		SourceURL:         "https://delhihighcourt.nic.in/app/order-1.pdf",
		DownloadTimestamp: at.Add(time.Minute),
		Success:           true,
		ByteSize:          &size,
		PageCount:         &pages,
	}
	failed := &PDFDownload{
		CaseQueryID:       queryID,
		SourceURL:         "https://delhihighcourt.nic.in/app/judgment.pdf",
		DownloadTimestamp: at.Add(2 * time.Minute),
	}

	for _, d := range []*PDFDownload{ok, failed} {
		if _, err := store.InsertDownload(ctx, d); err != nil {
			t.Fatalf("InsertDownload() error = %v", err)
		}
	}

	got, err := store.ListDownloads(ctx, queryID)
	if err != nil {
		t.Fatalf("ListDownloads() error = %v", err)
	}
	want := []PDFDownload{*ok, *failed}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListDownloads mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertDownloadRequiresOwner(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.InsertDownload(context.Background(), &PDFDownload{
		CaseQueryID:       99,
		SourceURL:         "https://example.com/a.pdf",
		DownloadTimestamp: time.Now().UTC(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("InsertDownload() error = %v, want ErrNotFound", err)
	}
}

func TestInsertDownloadRejectsSizeOnFailure(t *testing.T) {
	store := setupTestStore(t)
	size := int64(10)

	_, err := store.InsertDownload(context.Background(), &PDFDownload{
		CaseQueryID:       1,
		SourceURL:         "https://example.com/a.pdf",
		DownloadTimestamp: time.Now().UTC(),
		ByteSize:          &size,
	})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("InsertDownload() error = %v, want ErrInvalidRecord", err)
	}
}

func TestStorageErrorAfterClose(t *testing.T) {
	db, err := Initialize(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	store := NewStore(db)
	if err := Close(db); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err = store.Insert(context.Background(), failedQuery(time.Now().UTC()))
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("Insert() error = %v, want ErrStorage", err)
	}
	if err := store.Ping(context.Background()); !errors.Is(err, ErrStorage) {
		t.Fatalf("Ping() error = %v, want ErrStorage", err)
	}
}
