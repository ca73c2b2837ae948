package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salescheck/constants"
	"salescheck/services/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultGoongURL     = "https://rsapi.goong.io"
	defaultUserAgent    = "salescheck/1.0"
)

// Geocoder chuyển tọa độ thành địa chỉ. ResolveAddress không bao giờ lỗi,
// khi không tra được sẽ trả về chuỗi tọa độ.
type Geocoder interface {
	ResolveAddress(ctx context.Context, lat, lng float64) string
}

// FallbackAddress là địa chỉ dùng khi reverse geocoding thất bại
func FallbackAddress(lat, lng float64) string {
	return fmt.Sprintf("Lat: %.6f, Lng: %.6f", lat, lng)
}

// nominatimResponse là phản hồi của /reverse?format=jsonv2
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// goongResponse định nghĩa cấu trúc phản hồi từ Goong
type goongResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"`
}

type GeocoderOptions struct {
	Provider   string
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Redis      *redis.Client
	Logger     logger.Logger
}

// HTTPGeocoder gọi Nominatim hoặc Goong và cache kết quả trong Redis
type HTTPGeocoder struct {
	provider  string
	baseURL   string
	apiKey    string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	rdb       *redis.Client
	logger    logger.Logger
}

func NewGeocoder(opts GeocoderOptions) *HTTPGeocoder {
	g := &HTTPGeocoder{
		provider:  strings.ToLower(opts.Provider),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		client:    opts.HTTPClient,
		rdb:       opts.Redis,
		logger:    opts.Logger,
	}
	if g.provider != constants.GeocoderGoong {
		g.provider = constants.GeocoderNominatim
	}
	if g.baseURL == "" {
		g.baseURL = defaultNominatimURL
		if g.provider == constants.GeocoderGoong {
			g.baseURL = defaultGoongURL
		}
	}
	if g.userAgent == "" {
		g.userAgent = defaultUserAgent
	}
	if g.timeout <= 0 {
		g.timeout = 8 * time.Second
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	if g.logger == nil {
		g.logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return g
}

func (g *HTTPGeocoder) ResolveAddress(ctx context.Context, lat, lng float64) string {
	key := fmt.Sprintf("%s%s:%.5f,%.5f", constants.GeocodeCacheKeyPrefix, g.provider, lat, lng)

	var cached string
	if found, err := GetFromRedis(ctx, g.rdb, key, &cached); err != nil {
		g.logger.Debug("geocode cache read %s: %v", key, err)
	} else if found && cached != "" {
		return cached
	}

	address, err := g.lookup(ctx, lat, lng)
	if err != nil {
		g.logger.Warn("reverse geocode %.6f,%.6f failed: %v", lat, lng, err)
		return FallbackAddress(lat, lng)
	}

	if err := SetToRedis(ctx, g.rdb, key, address, constants.GeocodeCacheTTL); err != nil {
		g.logger.Debug("geocode cache write %s: %v", key, err)
	}
	return address
}

func (g *HTTPGeocoder) lookup(ctx context.Context, lat, lng float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var apiURL string
	if g.provider == constants.GeocoderGoong {
		q := url.Values{}
		q.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
		q.Set("api_key", g.apiKey)
		apiURL = g.baseURL + "/Geocode?" + q.Encode()
	} else {
		q := url.Values{}
		q.Set("format", "jsonv2")
		q.Set("lat", fmt.Sprintf("%f", lat))
		q.Set("lon", fmt.Sprintf("%f", lng))
		apiURL = g.baseURL + "/reverse?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if g.provider == constants.GeocoderGoong {
		var body goongResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(body.Results) == 0 || strings.TrimSpace(body.Results[0].FormattedAddress) == "" {
			return "", errors.New("no results found")
		}
		return body.Results[0].FormattedAddress, nil
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if body.Error != "" {
		return "", errors.New(body.Error)
	}
	if strings.TrimSpace(body.DisplayName) == "" {
		return "", errors.New("no results found")
	}
	return body.DisplayName, nil
}
