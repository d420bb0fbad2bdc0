package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/arogya-bot/internal/domain"
	"github.com/seu-repo/arogya-bot/internal/observability/telemetry"
	"github.com/seu-repo/arogya-bot/internal/ports"
)

type ConsultationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConsultationRepository(db *gorm.DB, log *zap.Logger) ports.ConsultationRepository {
	return &ConsultationRepository{
		db:  db,
		log: log,
	}
}

func (r *ConsultationRepository) Append(ctx context.Context, rec *domain.ConsultationRecord) error {
	start := time.Now()
	defer func() {
		telemetry.StoreLatency.Observe(time.Since(start).Seconds())
	}()

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	r.log.Info("Consultation record saved",
		zap.String("id", rec.ID),
		zap.Int64("user_id", rec.UserID),
	)
	return nil
}

func (r *ConsultationRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.ConsultationRecord, error) {
	var records []*domain.ConsultationRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *ConsultationRepository) FindAll(ctx context.Context) ([]*domain.ConsultationRecord, error) {
	var records []*domain.ConsultationRecord
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *ConsultationRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{
		ByLanguage: make(map[string]int),
		ByGender:   make(map[string]int),
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.ConsultationRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalConsultations = int(total)

	var unique int64
	if err := r.db.WithContext(ctx).Model(&domain.ConsultationRecord{}).
		Distinct("user_id").Count(&unique).Error; err != nil {
		return nil, err
	}
	stats.UniqueUsers = int(unique)

	type bucket struct {
		Key   string
		Count int
	}

	var byLanguage []bucket
	if err := r.db.WithContext(ctx).Model(&domain.ConsultationRecord{}).
		Select("language AS key, COUNT(*) AS count").
		Group("language").Scan(&byLanguage).Error; err != nil {
		return nil, err
	}
	for _, b := range byLanguage {
		stats.ByLanguage[b.Key] = b.Count
	}

	var byGender []bucket
	if err := r.db.WithContext(ctx).Model(&domain.ConsultationRecord{}).
		Select("gender AS key, COUNT(*) AS count").
		Group("gender").Scan(&byGender).Error; err != nil {
		return nil, err
	}
	for _, b := range byGender {
		stats.ByGender[b.Key] = b.Count
	}

	return stats, nil
}
