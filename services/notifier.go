package services

import (
	"context"

	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/services/notification"
)

// Notifier đẩy sự kiện check-in và đăng nhập tới websocket, đồng thời xóa
// cache lịch sử của user liên quan
type Notifier struct {
	notify  notification.Service
	reports *ReportService
	logger  logger.Logger
}

func NewNotifier(notify notification.Service, reports *ReportService, log logger.Logger) *Notifier {
	if notify == nil {
		notify = notification.Nop{}
	}
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &Notifier{notify: notify, reports: reports, logger: log}
}

func (n *Notifier) OnRecordChange(ctx context.Context, event RecordEvent) {
	if event.Record == nil {
		return
	}
	userID := event.Record.UserID
	if n.reports != nil {
		n.reports.InvalidateHistory(ctx, userID)
	}

	msg := notification.NewMessageBuilder(string(event.Kind)).WithData(event.Record).Build()
	if err := n.notify.SendToUser(userID, msg); err != nil {
		n.logger.Error("notify %s about %s: %v", userID, event.Kind, err)
	}
	if err := n.notify.SendToAdmins(notification.NewMessageBuilder("record_" + string(event.Kind)).WithData(event.Record).Build()); err != nil {
		n.logger.Error("notify admins about %s: %v", event.Kind, err)
	}
}

func (n *Notifier) OnSessionEvent(event models.SessionEvent) {
	msg := notification.NewMessageBuilder("session_" + string(event.Kind)).WithData(event).Build()
	if err := n.notify.SendToUser(event.UserID, msg); err != nil {
		n.logger.Error("notify %s about %s: %v", event.UserID, event.Kind, err)
	}
}
