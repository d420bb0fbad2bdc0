package ports

import (
	"context"
	"time"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// ConsultationRepository persists completed consultations. The store is
// append-only; implementations must serialize writers so concurrent appends
// from different sessions never lose a record.
type ConsultationRepository interface {
	Append(ctx context.Context, rec *domain.ConsultationRecord) error
	FindByUserID(ctx context.Context, userID int64) ([]*domain.ConsultationRecord, error)
	FindAll(ctx context.Context) ([]*domain.ConsultationRecord, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
