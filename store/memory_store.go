package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "salescheck/errors"
	"salescheck/models"

	"github.com/google/uuid"
)

// MemoryStore giữ bản ghi trong bộ nhớ, dùng cho môi trường dev và test
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]models.CheckInRecord
	openByUser map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:    make(map[string]models.CheckInRecord),
		openByUser: make(map[string]string),
	}
}

func (s *MemoryStore) CreateOpenRecord(ctx context.Context, record *models.CheckInRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.openByUser[record.UserID]; ok {
		return "", apperrors.ErrOpenSessionExists
	}

	now := time.Now()
	rec := record.Clone()
	rec.ID = uuid.NewString()
	rec.CheckOutTime = nil
	rec.CheckOutAdd = ""
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.records[rec.ID] = rec
	s.openByUser[rec.UserID] = rec.ID

	record.ID = rec.ID
	record.CheckOutTime = nil
	record.CreatedAt = now
	record.UpdatedAt = now
	return rec.ID, nil
}

func (s *MemoryStore) CloseRecord(ctx context.Context, id string, at time.Time, address string) (*models.CheckInRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("close record %s: %w", id, apperrors.ErrRecordNotFound)
	}
	if !rec.IsOpen() {
		return nil, fmt.Errorf("close record %s: %w", id, apperrors.ErrRecordAlreadyClose)
	}

	rec.CheckOutTime = &at
	rec.CheckOutAdd = address
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	delete(s.openByUser, rec.UserID)

	out := rec.Clone()
	return &out, nil
}

func (s *MemoryStore) GetRecord(ctx context.Context, id string) (*models.CheckInRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("get record %s: %w", id, apperrors.ErrRecordNotFound)
	}
	out := rec.Clone()
	return &out, nil
}

func (s *MemoryStore) FindOpenSession(ctx context.Context, userID string) (*models.CheckInRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.openByUser[userID]
	if !ok {
		return nil, nil
	}
	out := s.records[id].Clone()
	return &out, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]models.CheckInRecord, error) {
	return s.collect(RecordFilter{UserID: userID}), nil
}

func (s *MemoryStore) Query(ctx context.Context, filter RecordFilter, page PageRequest) (*RecordPage, error) {
	cur, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	limit := page.normalizedLimit()

	var out []models.CheckInRecord
	for _, r := range s.collect(filter) {
		if !cur.after(r) {
			continue
		}
		out = append(out, r)
		if len(out) > limit {
			break
		}
	}
	return buildPage(out, limit), nil
}

func (s *MemoryStore) CountOpenSessions(ctx context.Context, olderThan time.Time) ([]OpenSessionCount, error) {
	s.mu.RLock()
	var open []models.CheckInRecord
	for _, r := range s.records {
		if r.IsOpen() {
			open = append(open, r.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(open, func(i, j int) bool { return open[i].CheckInTime.Before(open[j].CheckInTime) })
	return summarizeOpen(open, olderThan), nil
}

// collect trả về bản ghi khớp filter, mới nhất trước
func (s *MemoryStore) collect(filter RecordFilter) []models.CheckInRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CheckInRecord, 0)
	for _, r := range s.records {
		if filter.Matches(&r) {
			out = append(out, r.Clone())
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(records []models.CheckInRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CheckInTime.Equal(records[j].CheckInTime) {
			return records[i].CheckInTime.After(records[j].CheckInTime)
		}
		return records[i].ID > records[j].ID
	})
}
