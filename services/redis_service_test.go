package services

import (
	"context"
	"testing"
	"time"

	"salescheck/dto"
	apperrors "salescheck/errors"
)

func TestRedisSessionLock(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	lock := NewRedisSessionLock(rdb, "checkin_lock:", 30*time.Second)

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := lock.Acquire(ctx, "u1"); !apperrors.Is(err, apperrors.ErrLockHeld) {
		t.Fatalf("second acquire: got %v", err)
	}
	other, err := lock.Acquire(ctx, "u2")
	if err != nil {
		t.Fatalf("other user: %v", err)
	}
	other()

	release()
	if mr.Exists("checkin_lock:u1") {
		t.Fatal("lock not released")
	}
	again, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	again()
}

func TestRedisSessionLockExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	lock := NewRedisSessionLock(rdb, "checkin_lock:", time.Second)

	stale, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	fresh, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
	// releasing the expired holder must not drop the new one
	stale()
	if !mr.Exists("checkin_lock:u1") {
		t.Fatal("stale release removed someone else's lock")
	}
	fresh()
}

func TestLocalSessionLock(t *testing.T) {
	lock := NewLocalSessionLock()
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := lock.Acquire(ctx, "u1"); !apperrors.Is(err, apperrors.ErrLockHeld) {
		t.Fatalf("got %v", err)
	}
	release()
	release()
	if r, err := lock.Acquire(ctx, "u1"); err != nil {
		t.Fatalf("re-acquire: %v", err)
	} else {
		r()
	}
}

func TestRedisHelpersWithoutClient(t *testing.T) {
	ctx := context.Background()
	var target []string
	if found, err := GetFromRedis(ctx, nil, "k", &target); found || err != nil {
		t.Fatalf("get: %v %v", found, err)
	}
	if err := SetToRedis(ctx, nil, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := DeleteFromRedis(ctx, nil, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f, err := GetLastFilters(ctx, nil, "admin"); f != nil || err != nil {
		t.Fatalf("filters: %v %v", f, err)
	}
}

func TestMergeFilters(t *testing.T) {
	old := &dto.RecordQuery{CompanyName: "Acme", Location: "Rajkot", From: "2024-03-01", To: "2024-03-10"}

	got := MergeFilters(old, &dto.RecordQuery{Location: "Surat"})
	if got.CompanyName != "Acme" || got.Location != "Surat" || got.From != "2024-03-01" || got.To != "2024-03-10" {
		t.Fatalf("merge = %+v", got)
	}

	// new From after the saved To drops the saved To
	got = MergeFilters(old, &dto.RecordQuery{From: "2024-03-20"})
	if got.From != "2024-03-20" || got.To != "" {
		t.Fatalf("reversed range kept: %+v", got)
	}

	if got := MergeFilters(nil, &dto.RecordQuery{Name: "Asha"}); got.Name != "Asha" {
		t.Fatalf("nil old = %+v", got)
	}
}
