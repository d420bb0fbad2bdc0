package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// MockConsultationRepository is a mock implementation of ConsultationRepository
type MockConsultationRepository struct {
	AppendFunc       func(ctx context.Context, rec *domain.ConsultationRecord) error
	FindByUserIDFunc func(ctx context.Context, userID int64) ([]*domain.ConsultationRecord, error)
	FindAllFunc      func(ctx context.Context) ([]*domain.ConsultationRecord, error)
	StatsFunc        func(ctx context.Context) (*domain.Stats, error)

	Appended []*domain.ConsultationRecord
}

func (m *MockConsultationRepository) Append(ctx context.Context, rec *domain.ConsultationRecord) error {
	m.Appended = append(m.Appended, rec)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, rec)
	}
	return nil
}

func (m *MockConsultationRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.ConsultationRecord, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockConsultationRepository) FindAll(ctx context.Context) ([]*domain.ConsultationRecord, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockConsultationRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.Stats{}, nil
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func() error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", nil
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockCache) Ping() error {
	if m.PingFunc != nil {
		return m.PingFunc()
	}
	return nil
}

func (m *MockCache) Close() error { return nil }
