package constants

import "time"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Geocoder providers
const (
	GeocoderNominatim = "nominatim"
	GeocoderGoong     = "goong"
)

// Địa điểm gợi ý trong form check-in, vẫn cho nhập tự do
var Locations = []string{
	"Rajkot",
	"Ahmedabad",
	"Surat",
	"Vadodara",
	"Morbi",
	"Jamnagar",
	"Bhavnagar",
	"Gandhinagar",
}

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Cache keys và TTL
const (
	HistoryCacheKeyPrefix  = "history:"
	HistoryVersionPrefix   = "history_version:"
	LastFiltersKeyPrefix   = "last_filters:"
	CheckInLockKeyPrefix   = "checkin_lock:"
	RevokedTokenKeyPrefix  = "revoked_token:"
	GeocodeCacheKeyPrefix  = "geocode:"
	HistoryCacheTTL        = 10 * time.Minute
	HistoryVersionTTL      = 24 * time.Hour
	LastFiltersTTL         = 30 * time.Minute
	CheckInLockTTL         = 45 * time.Second
	GeocodeCacheTTL        = 24 * time.Hour
	PasswordResetCodeTTL   = 15 * time.Minute
	OpenSessionAlertHours  = 12
	DefaultFormResetDelay  = 2 * time.Second
	DefaultAccessTokenMins = 60 * 24 * 3
)

// Date and time layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
