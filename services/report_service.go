package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"salescheck/constants"
	"salescheck/dto"
	apperrors "salescheck/errors"
	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/store"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type ReportOptions struct {
	Store    store.RecordStore
	Redis    *redis.Client
	Location *time.Location
	Logger   logger.Logger
}

// ReportService phục vụ lịch sử của user và báo cáo của admin
type ReportService struct {
	store  store.RecordStore
	rdb    *redis.Client
	loc    *time.Location
	logger logger.Logger
}

func NewReportService(opts ReportOptions) *ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &ReportService{
		store:  opts.Store,
		rdb:    opts.Redis,
		loc:    opts.Location,
		logger: opts.Logger,
	}
}

func (s *ReportService) Location() *time.Location { return s.loc }

func historyCacheKey(userID string) string {
	return constants.HistoryCacheKeyPrefix + userID
}

func historyVersionKey(userID string) string {
	return constants.HistoryVersionPrefix + userID
}

// errHistoryChanged: cache bị xóa trong lúc đang đọc store
var errHistoryChanged = errors.New("history changed while loading")

// redisGetter là *redis.Client hoặc *redis.Tx
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// historyVersion đọc version của cache lịch sử, tăng mỗi lần InvalidateHistory
func (s *ReportService) historyVersion(ctx context.Context, rdb redisGetter, userID string) (string, error) {
	v, err := rdb.Get(ctx, historyVersionKey(userID)).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return v, err
}

// fillHistoryCache chỉ ghi cache khi version chưa đổi kể từ lúc đọc store,
// nếu không một lần check-in xen giữa sẽ bị ghi đè bằng danh sách cũ.
func (s *ReportService) fillHistoryCache(ctx context.Context, userID, version string, records []models.CheckInRecord) error {
	if s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	versionKey := historyVersionKey(userID)
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.historyVersion(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != version {
			return errHistoryChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, historyCacheKey(userID), data, constants.HistoryCacheTTL)
			return nil
		})
		return err
	}, versionKey)
}

// UserHistory trả về bản ghi của chính user, mới nhất trước, lọc theo công ty
// (chứa chuỗi, không phân biệt hoa thường) và ngày check-in.
func (s *ReportService) UserHistory(ctx context.Context, session models.Session, q dto.HistoryQuery) ([]models.CheckInRecord, error) {
	if !session.SignedIn() {
		return nil, unauthorized()
	}
	userID := session.User.ID

	var records []models.CheckInRecord
	found, err := GetFromRedis(ctx, s.rdb, historyCacheKey(userID), &records)
	if err != nil {
		s.logger.Debug("history cache read for %s: %v", userID, err)
	}
	if !found {
		version := ""
		if s.rdb != nil {
			if version, err = s.historyVersion(ctx, s.rdb, userID); err != nil {
				s.logger.Debug("history version read for %s: %v", userID, err)
			}
		}
		records, err = s.store.ListByUser(ctx, userID)
		if err != nil {
			s.logger.Error("list history for %s: %v", userID, err)
			return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load history", err)
		}
		if version != "" {
			if err := s.fillHistoryCache(ctx, userID, version, records); err != nil {
				s.logger.Debug("history cache write for %s: %v", userID, err)
			}
		}
	}

	var day string
	if q.Date != "" {
		d, err := time.ParseInLocation(constants.DateLayout, q.Date, s.loc)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "invalid date", err)
		}
		day = d.Format(constants.DateLayout)
	}
	company := strings.ToLower(strings.TrimSpace(q.Company))

	filtered := make([]models.CheckInRecord, 0, len(records))
	for _, r := range records {
		if company != "" && !strings.Contains(strings.ToLower(r.CompanyName), company) {
			continue
		}
		if day != "" && r.CheckInTime.In(s.loc).Format(constants.DateLayout) != day {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CheckInTime.After(filtered[j].CheckInTime)
	})
	return filtered, nil
}

// InvalidateHistory xóa cache lịch sử sau khi check-in/check-out
func (s *ReportService) InvalidateHistory(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, historyVersionKey(userID))
		pipe.Expire(ctx, historyVersionKey(userID), constants.HistoryVersionTTL)
		pipe.Del(ctx, historyCacheKey(userID))
		return nil
	})
	if err != nil {
		s.logger.Error("invalidate history cache for %s: %v", userID, err)
	}
}

// AdminRecords trả về một trang bản ghi theo bộ lọc của admin, cùng bộ lọc
// thực sự đã áp dụng sau khi gộp với bộ lọc lưu lần trước.
func (s *ReportService) AdminRecords(ctx context.Context, session models.Session, q dto.RecordQuery) (*store.RecordPage, *dto.RecordQuery, error) {
	if !session.SignedIn() {
		return nil, nil, unauthorized()
	}
	if !session.IsAdmin {
		return nil, nil, apperrors.NewAppError(apperrors.ErrCodeForbidden, "Admin access required", nil)
	}
	adminID := session.User.ID

	effective := q
	if q.Reset {
		if err := ClearLastFilters(ctx, s.rdb, adminID); err != nil {
			s.logger.Error("clear last filters for %s: %v", adminID, err)
		}
	} else if q.Restore {
		old, err := GetLastFilters(ctx, s.rdb, adminID)
		if err != nil {
			s.logger.Error("get last filters for %s: %v", adminID, err)
		}
		effective = *MergeFilters(old, &effective)
	}

	page, err := s.QueryPage(ctx, effective)
	if err != nil {
		return nil, nil, err
	}

	if err := SaveLastFilters(ctx, s.rdb, adminID, &effective); err != nil {
		s.logger.Error("save last filters for %s: %v", adminID, err)
	}
	return page, &effective, nil
}

// QueryPage chạy truy vấn store cho một bộ lọc đã chuẩn hóa
func (s *ReportService) QueryPage(ctx context.Context, q dto.RecordQuery) (*store.RecordPage, error) {
	filter, err := s.Filter(q)
	if err != nil {
		return nil, err
	}
	page, err := s.store.Query(ctx, filter, store.PageRequest{Limit: q.Limit, Cursor: q.Cursor})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidCursor) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidCursor, "invalid cursor", err)
		}
		s.logger.Error("query records: %v", err)
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load records", err)
	}
	return page, nil
}

func (s *ReportService) Filter(q dto.RecordQuery) (store.RecordFilter, error) {
	from, until, err := store.DayRange(q.From, q.To, s.loc)
	if err != nil {
		return store.RecordFilter{}, err
	}
	return store.RecordFilter{
		UserID:       strings.TrimSpace(q.UserID),
		Name:         strings.TrimSpace(q.Name),
		CompanyName:  strings.TrimSpace(q.CompanyName),
		Location:     strings.TrimSpace(q.Location),
		CheckInFrom:  from,
		CheckInUntil: until,
	}, nil
}
