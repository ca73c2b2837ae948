package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/services/notification"
	"salescheck/store"
)

type recordingNotifier struct {
	admin []notification.Message
}

func (r *recordingNotifier) SendToUser(string, notification.Message) error { return nil }

func (r *recordingNotifier) SendToAdmins(msg notification.Message) error {
	r.admin = append(r.admin, msg)
	return nil
}

// countStore trả về kết quả CountOpenSessions cố định
type countStore struct {
	store.RecordStore
	counts []store.OpenSessionCount
}

func (s countStore) CountOpenSessions(context.Context, time.Time) ([]store.OpenSessionCount, error) {
	return s.counts, nil
}

var now = time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

func TestAuditReportsStaleSessions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	for user, at := range map[string]time.Time{
		"u1": now.Add(-13 * time.Hour),
		"u2": now.Add(-time.Hour),
	} {
		if _, err := s.CreateOpenRecord(ctx, &models.CheckInRecord{UserID: user, Name: user, CompanyName: "Acme", Location: "Rajkot", CheckInTime: at}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	notify := &recordingNotifier{}
	auditor := &OpenSessionAuditor{
		Store:  s,
		Notify: notify,
		Logger: logger.Nop{},
		Now:    func() time.Time { return now },
	}
	report, err := auditor.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Stale) != 1 || report.Stale[0].UserID != "u1" {
		t.Fatalf("stale = %+v", report.Stale)
	}
	if len(report.Duplicates) != 0 {
		t.Fatalf("duplicates = %+v", report.Duplicates)
	}
	if len(notify.admin) != 1 || notify.admin[0].Type != "open_session_alert" {
		t.Fatalf("admin messages = %+v", notify.admin)
	}
	data := notify.admin[0].Data.(map[string]any)
	if text, _ := data["message"].(string); !strings.Contains(text, "12 hours") {
		t.Fatalf("message = %q", text)
	}
}

func TestAuditReportsDuplicates(t *testing.T) {
	notify := &recordingNotifier{}
	auditor := &OpenSessionAuditor{
		Store: countStore{counts: []store.OpenSessionCount{
			{UserID: "u3", Count: 2, OldestCheckIn: now.Add(-time.Hour)},
		}},
		Notify:    notify,
		Logger:    logger.Nop{},
		Threshold: 4 * time.Hour,
		Now:       func() time.Time { return now },
	}
	report, err := auditor.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Duplicates) != 1 || len(report.Stale) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(notify.admin) != 1 {
		t.Fatalf("admin messages = %d", len(notify.admin))
	}
	data := notify.admin[0].Data.(map[string]any)
	if text, _ := data["message"].(string); !strings.Contains(text, "1 user(s) have more than one open session") {
		t.Fatalf("message = %q", text)
	}
}

func TestAuditQuietWhenNothingOpen(t *testing.T) {
	notify := &recordingNotifier{}
	auditor := &OpenSessionAuditor{Store: store.NewMemoryStore(), Notify: notify, Logger: logger.Nop{}}
	report, err := auditor.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Stale) != 0 || len(notify.admin) != 0 {
		t.Fatalf("unexpected alert: %+v %+v", report, notify.admin)
	}
}
