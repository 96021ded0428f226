package http

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-graphite/chartkit/cmd/chartkit/config"
	"github.com/lomik/zapwriter"
	"go.uber.org/zap"
)

type responseFormat int

// for testing
var timeNow = time.Now

const (
	jsonFormat responseFormat = iota
	pngFormat
	svgFormat
)

func (r responseFormat) String() string {
	switch r {
	case jsonFormat:
		return "json"
	case pngFormat:
		return "png"
	case svgFormat:
		return "svg"
	default:
		return "unknown"
	}
}

var knownFormats = map[string]responseFormat{
	"json": jsonFormat,
	"png":  pngFormat,
	"svg":  svgFormat,
}

const (
	contentTypeJSON       = "application/json"
	contentTypeJavaScript = "text/javascript"
	contentTypePNG        = "image/png"
	contentTypeSVG        = "image/svg+xml"
)

func getFormat(r *http.Request, defaultFormat responseFormat) (responseFormat, bool, string) {
	format := r.FormValue("format")

	if format == "" {
		return defaultFormat, true, format
	}

	f, ok := knownFormats[format]
	return f, ok, format
}

func writeResponse(w http.ResponseWriter, returnCode int, b []byte, format responseFormat, jsonp string) {
	switch format {
	case jsonFormat:
		if jsonp != "" {
			w.Header().Set("Content-Type", contentTypeJavaScript)
			w.WriteHeader(returnCode)
			_, _ = w.Write([]byte(jsonp))
			_, _ = w.Write([]byte{'('})
			_, _ = w.Write(b)
			_, _ = w.Write([]byte{')'})
		} else {
			w.Header().Set("Content-Type", contentTypeJSON)
			w.WriteHeader(returnCode)
			_, _ = w.Write(b)
		}
	case pngFormat:
		w.Header().Set("Content-Type", contentTypePNG)
		w.WriteHeader(returnCode)
		_, _ = w.Write(b)
	case svgFormat:
		w.Header().Set("Content-Type", contentTypeSVG)
		w.WriteHeader(returnCode)
		_, _ = w.Write(b)
	}
}

func truthyBool(s string) bool {
	switch s {
	case "", "0", "false", "False", "no", "No":
		return false
	}
	return true
}

type accessLogDetails struct {
	Handler           string   `json:"handler"`
	Url               string   `json:"url"`
	PeerIp            string   `json:"peer_ip"`
	PeerPort          string   `json:"peer_port"`
	Host              string   `json:"host"`
	Referer           string   `json:"referer"`
	Uri               string   `json:"uri"`
	Format            string   `json:"format,omitempty"`
	Dataset           string   `json:"dataset,omitempty"`
	Columns           []string `json:"columns,omitempty"`
	FromRaw           string   `json:"from_raw,omitempty"`
	From              int64    `json:"from,omitempty"`
	UntilRaw          string   `json:"until_raw,omitempty"`
	Until             int64    `json:"until,omitempty"`
	Tz                string   `json:"tz,omitempty"`
	UseCache          bool     `json:"use_cache,omitempty"`
	FromCache         bool     `json:"from_cache,omitempty"`
	CacheTimeout      int32    `json:"cache_timeout,omitempty"`
	ResponseSizeBytes int64    `json:"response_size_bytes,omitempty"`
	HttpCode          int32    `json:"http_code,omitempty"`
	Reason            string   `json:"reason,omitempty"`
	Runtime           float64  `json:"runtime"`
}

func deferredAccessLogging(accessLogger *zap.Logger, accessLogDetails *accessLogDetails, t time.Time, logAsError bool) {
	accessLogDetails.Runtime = time.Since(t).Seconds()
	if logAsError {
		accessLogger.Error("request failed", zap.Any("data", *accessLogDetails))
	} else {
		accessLogDetails.HttpCode = http.StatusOK
		accessLogger.Info("request served", zap.Any("data", *accessLogDetails))
	}
}

func bucketRequestTimes(req *http.Request, t time.Duration) {
	ms := t.Nanoseconds() / int64(time.Millisecond)

	bucket := int(ms / 100)

	if bucket < config.Config.Buckets {
		atomic.AddInt64(&TimeBuckets[bucket], 1)
	} else {
		// Too big? Increment overflow bucket and log
		atomic.AddInt64(&TimeBuckets[config.Config.Buckets], 1)
		logger := zapwriter.Logger("slow")
		logger.Warn("Slow Request",
			zap.Duration("time", t),
			zap.String("url", req.URL.String()),
		)
	}
}

func splitRemoteAddr(addr string) (string, string) {
	tmp := strings.Split(addr, ":")
	if len(tmp) < 1 {
		return "unknown", "unknown"
	}
	if len(tmp) == 1 {
		return tmp[0], ""
	}

	return tmp[0], tmp[1]
}
