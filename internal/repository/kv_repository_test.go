package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/abc-fitness/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupKVRepositoryTest(t *testing.T) *GormKVRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate kv entries failed: %v", err)
	}
	return NewKVRepository(db)
}

func TestGormKVRepositoryGetMissing(t *testing.T) {
	repo := setupKVRepositoryTest(t)
	value, found, err := repo.Get(context.Background(), "abc_cart")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found || value != "" {
		t.Fatalf("missing key should not be found, got %q", value)
	}
}

func TestGormKVRepositorySetOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupKVRepositoryTest(t)

	if err := repo.Set(ctx, "abc_cart", `{"items":[]}`); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if err := repo.Set(ctx, "abc_cart", `{"items":[{"id":"m1"}]}`); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	value, found, err := repo.Get(ctx, "abc_cart")
	if err != nil || !found {
		t.Fatalf("get failed: found=%v err=%v", found, err)
	}
	if value != `{"items":[{"id":"m1"}]}` {
		t.Fatalf("value should be overwritten, got %s", value)
	}

	var count int64
	if err := repo.db.Model(&models.KVEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert should keep a single row, got %d", count)
	}
}

func TestGormKVRepositoryKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := setupKVRepositoryTest(t)
	_ = repo.Set(ctx, "abc_cart:a", "A")
	_ = repo.Set(ctx, "abc_cart:b", "B")

	a, _, _ := repo.Get(ctx, "abc_cart:a")
	b, _, _ := repo.Get(ctx, "abc_cart:b")
	if a != "A" || b != "B" {
		t.Fatalf("unexpected values a=%s b=%s", a, b)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestGormKVRepositoryNilDB(t *testing.T) {
	repo := NewKVRepository(nil)
	if _, _, err := repo.Get(context.Background(), "k"); err != ErrStoreUnavailable {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := repo.Set(context.Background(), "k", "v"); err != ErrStoreUnavailable {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestMemoryKVRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryKVRepository()

	if _, found, _ := repo.Get(ctx, "k"); found {
		t.Fatalf("empty repo should not find key")
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Set(ctx, fmt.Sprintf("k%d", i), "v")
		}(i)
	}
	wg.Wait()

	if repo.Len() != 20 {
		t.Fatalf("len want 20 got %d", repo.Len())
	}
	if value, found, _ := repo.Get(ctx, "k3"); !found || value != "v" {
		t.Fatalf("unexpected value %q found=%v", value, found)
	}
}
