package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/observability/telemetry"
)

// Repository persists consultation records as a single JSON array on disk.
// Every Append rewrites the whole file under a mutex, so concurrent
// consultations from different chats serialize here and no record is lost.
type Repository struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// NewRepository opens (or creates) the data file. A missing or empty file is
// initialized to an empty array; a corrupt file is an error so operators see
// it at startup instead of silently losing history.
func NewRepository(path string, log *zap.Logger) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
		}
	}

	r := &Repository{path: path, log: log}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) || (err == nil && len(data) == 0):
		if err := r.write([]*domain.ConsultationRecord{}); err != nil {
			return nil, err
		}
		log.Info("Initialized consultation data file", zap.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("jsonfile: read data file: %w", err)
	default:
		var records []*domain.ConsultationRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("jsonfile: corrupt data file %s: %w", path, err)
		}
	}

	return r, nil
}

// Append adds one record to the end of the file.
func (r *Repository) Append(ctx context.Context, rec *domain.ConsultationRecord) error {
	start := time.Now()
	defer func() {
		telemetry.StoreLatency.Observe(time.Since(start).Seconds())
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return err
	}
	records = append(records, rec)

	if err := r.write(records); err != nil {
		return err
	}

	r.log.Info("Consultation record saved",
		zap.String("id", rec.ID),
		zap.Int64("user_id", rec.UserID),
		zap.Int("total_records", len(records)),
	)
	return nil
}

// FindByUserID returns the user's records, oldest first.
func (r *Repository) FindByUserID(ctx context.Context, userID int64) ([]*domain.ConsultationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return nil, err
	}

	var out []*domain.ConsultationRecord
	for _, rec := range records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindAll returns every record, oldest first.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.ConsultationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Stats aggregates the stored records.
func (r *Repository) Stats(ctx context.Context) (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		TotalConsultations: len(records),
		ByLanguage:         make(map[string]int),
		ByGender:           make(map[string]int),
	}
	users := make(map[int64]struct{})
	for _, rec := range records {
		users[rec.UserID] = struct{}{}
		stats.ByLanguage[rec.Language]++
		stats.ByGender[rec.Gender]++
	}
	stats.UniqueUsers = len(users)
	return stats, nil
}

// read loads the full array; callers hold the mutex.
func (r *Repository) read() ([]*domain.ConsultationRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read: %w", err)
	}
	var records []*domain.ConsultationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("jsonfile: decode: %w", err)
	}
	return records, nil
}

// write replaces the file contents; callers hold the mutex (or run before
// the repository is shared).
func (r *Repository) write(records []*domain.ConsultationRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	return nil
}
