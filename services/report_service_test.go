package services

import (
	"context"
	"testing"
	"time"

	"salescheck/dto"
	apperrors "salescheck/errors"
	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/store"
)

func seedRecords(t *testing.T, s store.RecordStore) {
	t.Helper()
	ctx := context.Background()
	// IST 2024-03-09 23:45, 2024-03-10 00:15, 2024-03-10 18:00, 2024-03-11 09:00
	seeds := []struct {
		user, company, location string
		at                      time.Time
	}{
		{"u1", "Acme Traders", "Rajkot", time.Date(2024, 3, 9, 18, 15, 0, 0, time.UTC)},
		{"u1", "Globex", "Surat", time.Date(2024, 3, 9, 18, 45, 0, 0, time.UTC)},
		{"u2", "Acme Traders", "Rajkot", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"u1", "acme traders", "Morbi", time.Date(2024, 3, 11, 3, 30, 0, 0, time.UTC)},
	}
	for _, sd := range seeds {
		r := &models.CheckInRecord{
			UserID: sd.user, UserEmail: sd.user + "@example.com", Name: "User " + sd.user,
			CompanyName: sd.company, Location: sd.location, CheckInTime: sd.at,
		}
		if _, err := s.CreateOpenRecord(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := s.CloseRecord(ctx, r.ID, sd.at.Add(time.Hour), "addr"); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func newReports(t *testing.T, withRedis bool) (*ReportService, store.RecordStore) {
	t.Helper()
	s := store.NewMemoryStore()
	seedRecords(t, s)
	opts := ReportOptions{Store: s, Location: ist, Logger: logger.Nop{}}
	if withRedis {
		_, opts.Redis = newTestRedis(t)
	}
	return NewReportService(opts), s
}

var (
	userSession  = models.NewSession(models.Identity{ID: "u1", Email: "u1@example.com"}, false)
	adminSession = models.NewSession(models.Identity{ID: "admin", Email: "boss@example.com"}, true)
)

func TestUserHistory(t *testing.T) {
	reports, _ := newReports(t, false)
	ctx := context.Background()

	all, err := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 own records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CheckInTime.After(all[i-1].CheckInTime) {
			t.Fatal("history not newest first")
		}
	}
	for _, r := range all {
		if r.UserID != "u1" {
			t.Fatalf("leaked record of %s", r.UserID)
		}
	}

	acme, _ := reports.UserHistory(ctx, userSession, dto.HistoryQuery{Company: "ACME"})
	if len(acme) != 2 {
		t.Fatalf("company filter: got %d", len(acme))
	}

	// 2024-03-10 in IST covers only the 00:15 check-in
	day, _ := reports.UserHistory(ctx, userSession, dto.HistoryQuery{Date: "2024-03-10"})
	if len(day) != 1 || day[0].CompanyName != "Globex" {
		t.Fatalf("date filter: %+v", day)
	}

	if _, err := reports.UserHistory(ctx, userSession, dto.HistoryQuery{Date: "10/03/2024"}); !apperrors.HasCode(err, apperrors.ErrCodeInvalidFormat) {
		t.Fatalf("bad date: got %v", err)
	}
	if _, err := reports.UserHistory(ctx, models.AnonymousSession(), dto.HistoryQuery{}); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("anonymous: got %v", err)
	}
}

func TestUserHistoryCacheInvalidation(t *testing.T) {
	reports, s := newReports(t, true)
	ctx := context.Background()

	first, err := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if err != nil || len(first) != 3 {
		t.Fatalf("history: %d %v", len(first), err)
	}

	r := &models.CheckInRecord{UserID: "u1", Name: "User u1", CompanyName: "Initech", Location: "Surat", CheckInTime: time.Now()}
	if _, err := s.CreateOpenRecord(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	cached, _ := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if len(cached) != 3 {
		t.Fatalf("expected cached result, got %d", len(cached))
	}

	reports.InvalidateHistory(ctx, "u1")
	fresh, _ := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if len(fresh) != 4 {
		t.Fatalf("expected fresh result, got %d", len(fresh))
	}
}

// afterListStore runs a hook once, right after ListByUser has read the store.
type afterListStore struct {
	store.RecordStore
	hook func()
}

func (s *afterListStore) ListByUser(ctx context.Context, userID string) ([]models.CheckInRecord, error) {
	records, err := s.RecordStore.ListByUser(ctx, userID)
	if s.hook != nil {
		hook := s.hook
		s.hook = nil
		hook()
	}
	return records, err
}

func TestUserHistoryIgnoresStaleFill(t *testing.T) {
	ctx := context.Background()
	base := store.NewMemoryStore()
	seedRecords(t, base)
	mr, rdb := newTestRedis(t)
	wrapped := &afterListStore{RecordStore: base}
	reports := NewReportService(ReportOptions{Store: wrapped, Redis: rdb, Location: ist, Logger: logger.Nop{}})

	// a check-in lands between the store read and the cache write
	wrapped.hook = func() {
		r := &models.CheckInRecord{UserID: "u1", Name: "User u1", CompanyName: "Initech", Location: "Surat", CheckInTime: time.Now()}
		if _, err := base.CreateOpenRecord(ctx, r); err != nil {
			t.Errorf("create: %v", err)
		}
		reports.InvalidateHistory(ctx, "u1")
	}

	stale, err := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if err != nil || len(stale) != 3 {
		t.Fatalf("history: %d %v", len(stale), err)
	}
	if mr.Exists(historyCacheKey("u1")) {
		t.Fatal("stale list must not be cached after an invalidation")
	}

	fresh, err := reports.UserHistory(ctx, userSession, dto.HistoryQuery{})
	if err != nil || len(fresh) != 4 {
		t.Fatalf("history after check-in: %d %v", len(fresh), err)
	}
	if !mr.Exists(historyCacheKey("u1")) {
		t.Fatal("fresh list should be cached")
	}
}

func TestAdminRecordsDateRange(t *testing.T) {
	reports, _ := newReports(t, false)
	ctx := context.Background()

	page, applied, err := reports.AdminRecords(ctx, adminSession, dto.RecordQuery{From: "2024-03-10", To: "2024-03-10"})
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if applied.From != "2024-03-10" {
		t.Fatalf("applied = %+v", applied)
	}
	if len(page.Records) != 2 {
		t.Fatalf("expected both 2024-03-10 IST records, got %d", len(page.Records))
	}
	for _, r := range page.Records {
		if d := r.CheckInTime.In(ist).Format("2006-01-02"); d != "2024-03-10" {
			t.Fatalf("record outside range: %s", d)
		}
	}

	page, _, err = reports.AdminRecords(ctx, adminSession, dto.RecordQuery{CompanyName: "Acme Traders", Location: "Rajkot"})
	if err != nil || len(page.Records) != 2 {
		t.Fatalf("AND filter: %d %v", len(page.Records), err)
	}
}

func TestAdminRecordsRequiresAdmin(t *testing.T) {
	reports, _ := newReports(t, false)
	if _, _, err := reports.AdminRecords(context.Background(), userSession, dto.RecordQuery{}); !apperrors.HasCode(err, apperrors.ErrCodeForbidden) {
		t.Fatalf("got %v", err)
	}
	if _, _, err := reports.AdminRecords(context.Background(), models.AnonymousSession(), dto.RecordQuery{}); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("got %v", err)
	}
}

func TestAdminRecordsPagination(t *testing.T) {
	reports, _ := newReports(t, false)
	ctx := context.Background()

	seen := map[string]bool{}
	q := dto.RecordQuery{Limit: 3}
	for i := 0; ; i++ {
		page, _, err := reports.AdminRecords(ctx, adminSession, q)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		for _, r := range page.Records {
			if seen[r.ID] {
				t.Fatalf("record %s repeated", r.ID)
			}
			seen[r.ID] = true
		}
		if !page.HasMore {
			break
		}
		q.Cursor = page.NextCursor
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 records, got %d", len(seen))
	}

	if _, _, err := reports.AdminRecords(ctx, adminSession, dto.RecordQuery{Cursor: "%%%"}); !apperrors.HasCode(err, apperrors.ErrCodeInvalidCursor) {
		t.Fatalf("bad cursor: got %v", err)
	}
	if _, _, err := reports.AdminRecords(ctx, adminSession, dto.RecordQuery{From: "2024-03-12", To: "2024-03-01"}); err == nil {
		t.Fatal("reversed range accepted")
	}
}

func TestAdminFiltersRestoreAndReset(t *testing.T) {
	reports, _ := newReports(t, true)
	ctx := context.Background()

	if _, _, err := reports.AdminRecords(ctx, adminSession, dto.RecordQuery{CompanyName: "Acme Traders"}); err != nil {
		t.Fatalf("records: %v", err)
	}

	page, applied, err := reports.AdminRecords(ctx, adminSession, dto.RecordQuery{Location: "Rajkot", Restore: true})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if applied.CompanyName != "Acme Traders" || applied.Location != "Rajkot" {
		t.Fatalf("applied = %+v", applied)
	}
	if len(page.Records) != 2 {
		t.Fatalf("restored filter: got %d", len(page.Records))
	}

	_, applied, err = reports.AdminRecords(ctx, adminSession, dto.RecordQuery{Reset: true})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if applied.CompanyName != "" {
		t.Fatalf("reset kept filters: %+v", applied)
	}
	_, applied, _ = reports.AdminRecords(ctx, adminSession, dto.RecordQuery{Restore: true})
	if applied.CompanyName != "" || applied.Location != "" {
		t.Fatalf("filters survived reset: %+v", applied)
	}
}
