package jobs

import (
	"context"
	"time"

	"salescheck/constants"
	"salescheck/i18n"
	"salescheck/services/logger"
	"salescheck/services/notification"
	"salescheck/store"

	"github.com/robfig/cron/v3"
)

// OpenSessionAuditor báo các phiên mở quá lâu và user có nhiều hơn một phiên mở
type OpenSessionAuditor struct {
	Store     store.RecordStore
	Notify    notification.Service
	Logger    logger.Logger
	Threshold time.Duration
	Now       func() time.Time
}

// AuditReport là kết quả một lần kiểm tra
type AuditReport struct {
	Stale      []store.OpenSessionCount `json:"stale"`
	Duplicates []store.OpenSessionCount `json:"duplicates"`
}

func (a *OpenSessionAuditor) Run(ctx context.Context) (*AuditReport, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	threshold := a.Threshold
	if threshold <= 0 {
		threshold = constants.OpenSessionAlertHours * time.Hour
	}

	counts, err := a.Store.CountOpenSessions(ctx, now().Add(-threshold))
	if err != nil {
		return nil, err
	}

	report := &AuditReport{
		Stale:      []store.OpenSessionCount{},
		Duplicates: []store.OpenSessionCount{},
	}
	cutoff := now().Add(-threshold)
	for _, c := range counts {
		if c.Count > 1 {
			// vi phạm: một user chỉ được có một phiên mở
			a.Logger.Error("user %s has %d open sessions", c.UserID, c.Count)
			report.Duplicates = append(report.Duplicates, c)
		}
		if c.OldestCheckIn.Before(cutoff) {
			report.Stale = append(report.Stale, c)
		}
	}

	if len(report.Stale) == 0 && len(report.Duplicates) == 0 {
		a.Logger.Debug("open session audit: nothing to report")
		return report, nil
	}

	a.Logger.Info("open session audit: %d stale, %d duplicated", len(report.Stale), len(report.Duplicates))
	if a.Notify != nil {
		text := i18n.T(ctx, "open_session_alert", map[string]any{
			"Count":      len(report.Stale),
			"Hours":      int(threshold.Hours()),
			"Duplicates": len(report.Duplicates),
		})
		msg := notification.NewMessageBuilder("open_session_alert").WithData(map[string]any{
			"message": text,
			"report":  report,
		}).Build()
		if err := a.Notify.SendToAdmins(msg); err != nil {
			a.Logger.Error("notify admins: %v", err)
		}
	}
	return report, nil
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, auditor *OpenSessionAuditor) error {
	// Cron job chạy đầu mỗi giờ
	_, err := c.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		auditor.Logger.Info("Đang kiểm tra phiên check-in đang mở lúc: %v", time.Now())
		if _, err := auditor.Run(ctx); err != nil {
			auditor.Logger.Error("Lỗi khi kiểm tra phiên đang mở: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	auditor.Logger.Info("Cron jobs initialized successfully")
	return nil
}
