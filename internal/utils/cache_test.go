package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	cache := GetCache()
	cache.Purge()

	cache.Set("k", "v", time.Minute)
	if got := cache.Get("k"); got != "v" {
		t.Errorf("Get = %v, want v", got)
	}

	if got := cache.Get("missing"); got != nil {
		t.Errorf("Get missing = %v, want nil", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := GetCache()
	cache.Purge()

	cache.Set("k", "v", -time.Second)
	if got := cache.Get("k"); got != nil {
		t.Errorf("expired entry still served: %v", got)
	}
}

func TestCachePurge(t *testing.T) {
	cache := GetCache()
	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)

	cache.Purge()
	if cache.Get("a") != nil || cache.Get("b") != nil {
		t.Error("entries survived a purge")
	}
}
