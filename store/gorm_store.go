package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "salescheck/errors"
	"salescheck/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore lưu bản ghi trong PostgreSQL (SQLite khi test)
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate tạo bảng và index, bao gồm unique index một phần cho phiên mở
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.CheckInRecord{})
}

func (s *GormStore) CreateOpenRecord(ctx context.Context, record *models.CheckInRecord) (string, error) {
	record.ID = uuid.NewString()
	record.CheckInTime = record.CheckInTime.UTC()
	record.CheckOutTime = nil
	record.CheckOutAdd = ""

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Khóa theo user trong transaction để hai request không cùng tạo phiên
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", record.UserID).Error; err != nil {
				return err
			}
		}

		var existing []models.CheckInRecord
		if err := tx.Where("user_id = ? AND check_out_time IS NULL", record.UserID).
			Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperrors.ErrOpenSessionExists
		}

		return tx.Create(record).Error
	})
	if err != nil {
		record.ID = ""
		if errors.Is(err, apperrors.ErrOpenSessionExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.ErrOpenSessionExists
		}
		return "", fmt.Errorf("create check-in record: %w", err)
	}
	return record.ID, nil
}

func (s *GormStore) CloseRecord(ctx context.Context, id string, at time.Time, address string) (*models.CheckInRecord, error) {
	result := s.db.WithContext(ctx).Model(&models.CheckInRecord{}).
		Where("id = ? AND check_out_time IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_time": at.UTC(),
			"check_out_add":  address,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("close record %s: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := s.GetRecord(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("close record %s: %w", id, apperrors.ErrRecordAlreadyClose)
	}
	return s.GetRecord(ctx, id)
}

func (s *GormStore) GetRecord(ctx context.Context, id string) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get record %s: %w", id, apperrors.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return &record, nil
}

func (s *GormStore) FindOpenSession(ctx context.Context, userID string) (*models.CheckInRecord, error) {
	var records []models.CheckInRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_out_time IS NULL", userID).
		Order("check_in_time DESC").
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]models.CheckInRecord, error) {
	records := make([]models.CheckInRecord, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_time DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list records for user: %w", err)
	}
	return records, nil
}

func (s *GormStore) Query(ctx context.Context, filter RecordFilter, page PageRequest) (*RecordPage, error) {
	cur, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	limit := page.normalizedLimit()

	query := applyFilter(s.db.WithContext(ctx).Model(&models.CheckInRecord{}), filter)
	if cur != nil {
		query = query.Where("check_in_time < ? OR (check_in_time = ? AND id < ?)",
			cur.CheckInTime.UTC(), cur.CheckInTime.UTC(), cur.ID)
	}

	var records []models.CheckInRecord
	if err := query.Order("check_in_time DESC, id DESC").Limit(limit + 1).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return buildPage(records, limit), nil
}

func (s *GormStore) CountOpenSessions(ctx context.Context, olderThan time.Time) ([]OpenSessionCount, error) {
	var open []models.CheckInRecord
	err := s.db.WithContext(ctx).
		Where("check_out_time IS NULL").
		Order("check_in_time ASC").
		Find(&open).Error
	if err != nil {
		return nil, fmt.Errorf("count open sessions: %w", err)
	}
	return summarizeOpen(open, olderThan), nil
}

func applyFilter(query *gorm.DB, filter RecordFilter) *gorm.DB {
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.CompanyName != "" {
		query = query.Where("company_name = ?", filter.CompanyName)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.CheckInFrom != nil {
		query = query.Where("check_in_time >= ?", filter.CheckInFrom.UTC())
	}
	if filter.CheckInUntil != nil {
		query = query.Where("check_in_time < ?", filter.CheckInUntil.UTC())
	}
	return query
}
