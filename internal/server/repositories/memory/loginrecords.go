package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type LoginRecordRepository struct {
	mu      sync.Mutex
	records []models.LoginRecord
}

func NewLoginRecordRepository() *LoginRecordRepository {
	return &LoginRecordRepository{}
}

func (r *LoginRecordRepository) Create(ctx context.Context, rec *models.LoginRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.NewString()
	stored := *rec
	if rec.UserID != nil {
		uid := *rec.UserID
		stored.UserID = &uid
	}
	r.records = append(r.records, stored)
	return nil
}

func (r *LoginRecordRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.LoginRecord, 0)
	for _, rec := range r.records {
		if rec.UserID != nil && *rec.UserID == userID {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AttemptedAt.After(result[j].AttemptedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *LoginRecordRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.UserID == nil || *rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}
