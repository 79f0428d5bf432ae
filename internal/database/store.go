package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStorage wraps every failure of the underlying database.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidRecord is returned when a row violates its invariants.
	ErrInvalidRecord = errors.New("invalid record")
)

// Store is the append-only case record store. It offers no update or
// delete operations and holds no cache: every read goes to the database.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an initialized database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert writes a case query and returns its identifier.
func (s *Store) Insert(ctx context.Context, q *CaseQuery) (uint, error) {
	if q.ID != 0 {
		return 0, fmt.Errorf("%w: case query already has id %d", ErrInvalidRecord, q.ID)
	}
	if err := q.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return 0, storageErr("insert case query", err)
	}
	return q.ID, nil
}

// Get returns the case query with the given id.
func (s *Store) Get(ctx context.Context, id uint) (*CaseQuery, error) {
	var q CaseQuery
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("case query %d: %w", id, ErrNotFound)
		}
		return nil, storageErr("get case query", err)
	}
	return &q, nil
}

// ListRecent returns case queries newest first.
func (s *Store) ListRecent(ctx context.Context, limit, offset int) ([]CaseQuery, error) {
	var queries []CaseQuery
	err := s.db.WithContext(ctx).
		Order("query_timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&queries).Error
	if err != nil {
		return nil, storageErr("list case queries", err)
	}
	return queries, nil
}

// ListRecentSuccessful returns the newest successful case queries.
func (s *Store) ListRecentSuccessful(ctx context.Context, limit int) ([]CaseQuery, error) {
	var queries []CaseQuery
	err := s.db.WithContext(ctx).
		Where("success = ?", true).
		Order("query_timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&queries).Error
	if err != nil {
		return nil, storageErr("list successful case queries", err)
	}
	return queries, nil
}

// Count returns the number of stored case queries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&CaseQuery{}).Count(&total).Error; err != nil {
		return 0, storageErr("count case queries", err)
	}
	return total, nil
}

// InsertDownload writes a download attempt for an existing case query.
func (s *Store) InsertDownload(ctx context.Context, d *PDFDownload) (uint, error) {
	if d.ID != 0 {
		return 0, fmt.Errorf("%w: download already has id %d", ErrInvalidRecord, d.ID)
	}
	if err := d.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&CaseQuery{}).Where("id = ?", d.CaseQueryID).Count(&owners).Error; err != nil {
			return storageErr("check case query", err)
		}
		if owners == 0 {
			return fmt.Errorf("case query %d: %w", d.CaseQueryID, ErrNotFound)
		}
		if err := tx.Create(d).Error; err != nil {
			return storageErr("insert download", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
			return 0, err
		}
		return 0, storageErr("insert download", err)
	}
	return d.ID, nil
}

// ListDownloads returns the download attempts of a case query, oldest first.
func (s *Store) ListDownloads(ctx context.Context, caseQueryID uint) ([]PDFDownload, error) {
	var downloads []PDFDownload
	err := s.db.WithContext(ctx).
		Where("case_query_id = ?", caseQueryID).
		Order("download_timestamp ASC").
		Order("id ASC").
		Find(&downloads).Error
	if err != nil {
		return nil, storageErr("list downloads", err)
	}
	return downloads, nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
