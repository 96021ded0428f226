// Package cache stores rendered responses, keyed by the full render URL.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	ecache "github.com/dgryski/go-expirecache"
)

var (
	ErrTimeout  = errors.New("cache: timeout")
	ErrNotFound = errors.New("cache: not found")
)

type BytesCache interface {
	Get(k string) ([]byte, error)
	Set(k string, v []byte, expire int32)
}

type NullCache struct{}

func (NullCache) Get(string) ([]byte, error) { return nil, ErrNotFound }
func (NullCache) Set(string, []byte, int32)  {}

func NewExpireCache(maxsize uint64) *ExpireCache {
	ec := &ExpireCache{ec: ecache.New(maxsize)}
	go ec.ec.ApproximateCleaner(10 * time.Second)
	return ec
}

type ExpireCache struct {
	ec *ecache.Cache
}

func (ec ExpireCache) Get(k string) ([]byte, error) {
	v, ok := ec.ec.Get(k)

	if !ok {
		return nil, ErrNotFound
	}

	return v.([]byte), nil
}

func (ec ExpireCache) Set(k string, v []byte, expire int32) {
	ec.ec.Set(k, v, uint64(len(v)), expire)
}

// Size returns the approximate number of bytes held.
func (ec ExpireCache) Size() uint64 {
	return ec.ec.Size()
}

// Items returns the approximate number of entries held.
func (ec ExpireCache) Items() int {
	return ec.ec.Items()
}

func NewMemcached(prefix string, servers ...string) *MemcachedCache {
	return &MemcachedCache{
		prefix: prefix,
		client: memcache.New(servers...),
	}
}

type MemcachedCache struct {
	prefix   string
	client   *memcache.Client
	timeouts uint64
}

func (m *MemcachedCache) Get(k string) ([]byte, error) {
	hk := m.hashKey(k)
	done := make(chan bool, 1)

	var err error
	var item *memcache.Item

	go func() {
		item, err = m.client.Get(hk)
		done <- true
	}()

	timeout := time.After(50 * time.Millisecond)

	select {
	case <-timeout:
		atomic.AddUint64(&m.timeouts, 1)
		return nil, ErrTimeout
	case <-done:
	}

	if err != nil {
		// translate to internal cache miss error
		if err == memcache.ErrCacheMiss {
			err = ErrNotFound
		}
		return nil, err
	}

	return item.Value, nil
}

func (m *MemcachedCache) Set(k string, v []byte, expire int32) {
	hk := m.hashKey(k)
	go m.client.Set(&memcache.Item{Key: hk, Value: v, Expiration: expire})
}

// Timeouts returns how many gets gave up waiting on memcached.
func (m *MemcachedCache) Timeouts() uint64 {
	return atomic.LoadUint64(&m.timeouts)
}

func (m *MemcachedCache) hashKey(k string) string {
	key := sha1.Sum([]byte(m.prefix + ":" + k))
	return hex.EncodeToString(key[:])
}
