package http

import (
	"expvar"
	"strconv"
	"sync/atomic"

	"github.com/go-graphite/chartkit/cache"
	"github.com/go-graphite/chartkit/cmd/chartkit/config"
	"go.uber.org/zap"
)

var ApiMetrics = struct {
	Requests              *expvar.Int
	RenderRequests        *expvar.Int
	RequestCacheHits      *expvar.Int
	RequestCacheMisses    *expvar.Int
	RenderCacheOverheadNS *expvar.Int

	DatasetRequests *expvar.Int

	MemcacheTimeouts expvar.Func

	CacheSize  expvar.Func
	CacheItems expvar.Func
}{
	Requests:              expvar.NewInt("requests"),
	RenderRequests:        expvar.NewInt("render_requests"),
	RequestCacheHits:      expvar.NewInt("request_cache_hits"),
	RequestCacheMisses:    expvar.NewInt("request_cache_misses"),
	RenderCacheOverheadNS: expvar.NewInt("render_cache_overhead_ns"),

	DatasetRequests: expvar.NewInt("dataset_requests"),
}

type BucketEntry int

var TimeBuckets []int64

func (b BucketEntry) String() string {
	return strconv.Itoa(int(atomic.LoadInt64(&TimeBuckets[b])))
}

func RenderTimeBuckets() interface{} {
	return TimeBuckets
}

func SetupMetrics(logger *zap.Logger) {
	switch config.Config.Cache.Type {
	case "memcache":
		mcache := config.Config.ResponseCache.(*cache.MemcachedCache)

		ApiMetrics.MemcacheTimeouts = expvar.Func(func() interface{} {
			return mcache.Timeouts()
		})
		expvar.Publish("memcache_timeouts", ApiMetrics.MemcacheTimeouts)

	case "mem":
		qcache := config.Config.ResponseCache.(*cache.ExpireCache)

		ApiMetrics.CacheSize = expvar.Func(func() interface{} {
			return qcache.Size()
		})
		expvar.Publish("cache_size", ApiMetrics.CacheSize)

		ApiMetrics.CacheItems = expvar.Func(func() interface{} {
			return qcache.Items()
		})
		expvar.Publish("cache_items", ApiMetrics.CacheItems)
	default:
	}

	// +1 to track everything over the number of buckets we track
	TimeBuckets = make([]int64, config.Config.Buckets+1)
	expvar.Publish("requestBuckets", expvar.Func(RenderTimeBuckets))
}
