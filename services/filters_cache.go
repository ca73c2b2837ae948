package services

import (
	"context"

	"salescheck/constants"
	"salescheck/dto"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

func SaveLastFilters(ctx context.Context, rdb *redis.Client, key string, filters *dto.RecordQuery) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(filters)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, constants.LastFiltersKeyPrefix+key, b, constants.LastFiltersTTL).Err()
}

// GetLastFilters trả về nil, nil khi chưa lưu bộ lọc nào
func GetLastFilters(ctx context.Context, rdb *redis.Client, key string) (*dto.RecordQuery, error) {
	if rdb == nil {
		return nil, nil
	}
	val, err := rdb.Get(ctx, constants.LastFiltersKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var filters dto.RecordQuery
	if err := json.Unmarshal([]byte(val), &filters); err != nil {
		return nil, err
	}
	return &filters, nil
}

func ClearLastFilters(ctx context.Context, rdb *redis.Client, key string) error {
	return DeleteFromRedis(ctx, rdb, constants.LastFiltersKeyPrefix+key)
}

// Merge yêu cầu cũ với yêu cầu mới, field mới để trống thì lấy giá trị cũ
func MergeFilters(old *dto.RecordQuery, new *dto.RecordQuery) *dto.RecordQuery {
	if old == nil {
		return new
	}
	new.UserID = orString(new.UserID, old.UserID)
	new.Name = orString(new.Name, old.Name)
	new.CompanyName = orString(new.CompanyName, old.CompanyName)
	new.Location = orString(new.Location, old.Location)

	// Xử lý case người dùng nhập lại From hoặc To làm khoảng ngày bị ngược
	if new.From != "" && old.To != "" && new.To == "" && new.From > old.To {
		new.To = ""
	} else {
		new.To = orString(new.To, old.To)
	}
	if new.To != "" && old.From != "" && new.From == "" && new.To < old.From {
		new.From = ""
	} else {
		new.From = orString(new.From, old.From)
	}
	return new
}

func orString(newVal, oldVal string) string {
	if newVal != "" {
		return newVal
	}
	return oldVal
}
