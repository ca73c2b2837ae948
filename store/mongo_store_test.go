package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// Mongo chỉ chạy khi có MONGODB_TEST_URI, ví dụ mongodb://localhost:27017
func init() {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		return
	}
	extraFactories["mongo"] = func(t *testing.T, name string) RecordStore {
		t.Helper()
		dbName := fmt.Sprintf("salescheck_test_%s_%d", name, time.Now().UnixNano())
		db, err := NewMongoDB(uri, dbName)
		if err != nil {
			t.Fatalf("connect mongo: %v", err)
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.db.Drop(ctx)
			_ = db.Close(ctx)
		})
		s, err := NewMongoStore(context.Background(), db)
		if err != nil {
			t.Fatalf("mongo store: %v", err)
		}
		return s
	}
}
