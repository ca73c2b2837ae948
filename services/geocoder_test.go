package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"salescheck/constants"
	"salescheck/services/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestNominatimGeocoderCachesAddress(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/reverse" || r.URL.Query().Get("format") != "jsonv2" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Race Course Road, Rajkot, Gujarat, India"}`))
	}))
	defer srv.Close()

	mr, rdb := newTestRedis(t)
	g := NewGeocoder(GeocoderOptions{
		Provider: constants.GeocoderNominatim,
		BaseURL:  srv.URL,
		Redis:    rdb,
		Logger:   logger.Nop{},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if got := g.ResolveAddress(ctx, 22.3039, 70.8022); got != "Race Course Road, Rajkot, Gujarat, India" {
			t.Fatalf("address = %q", got)
		}
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected one upstream call, got %d", hits)
	}
	if !mr.Exists("geocode:nominatim:22.30390,70.80220") {
		t.Fatalf("cache key missing, keys = %v", mr.Keys())
	}
}

func TestGoongGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Geocode" || r.URL.Query().Get("api_key") != "k" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Write([]byte(`{"results":[{"formatted_address":"Kalawad Road, Rajkot"}],"status":"OK"}`))
	}))
	defer srv.Close()

	g := NewGeocoder(GeocoderOptions{Provider: constants.GeocoderGoong, BaseURL: srv.URL, APIKey: "k", Logger: logger.Nop{}})
	if got := g.ResolveAddress(context.Background(), 22.29, 70.78); got != "Kalawad Road, Rajkot" {
		t.Fatalf("address = %q", got)
	}
}

func TestGeocoderFallsBackToCoordinates(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"error body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, rdb := newTestRedis(t)
			g := NewGeocoder(GeocoderOptions{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Redis: rdb, Logger: logger.Nop{}})
			want := FallbackAddress(22.3039, 70.8022)
			if got := g.ResolveAddress(context.Background(), 22.3039, 70.8022); got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
			if n, _ := rdb.Exists(context.Background(), "geocode:nominatim:22.30390,70.80220").Result(); n != 0 {
				t.Fatal("fallback address must not be cached")
			}
		})
	}
}

func TestFallbackAddress(t *testing.T) {
	if got := FallbackAddress(22.3039, 70.8022); got != "Lat: 22.303900, Lng: 70.802200" {
		t.Fatalf("got %q", got)
	}
}
