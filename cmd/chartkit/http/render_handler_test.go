package http

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-graphite/chartkit/cache"
	"github.com/go-graphite/chartkit/cmd/chartkit/config"
)

const testEpoch = 1704067200 // 2024-01-01 00:00:00 UTC

func writeTestDataset(t *testing.T, dir, name string) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`{"timestamps":[`)
	for i := 0; i < 7; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", testEpoch+i*3600)
	}
	sb.WriteString(`],"load":[10,25,15,30,22,28,35],"free":[5,null,8,2,4,1,3]}`)

	err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(sb.String()), 0644)
	if err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
}

func setUpTestConfig(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	writeTestDataset(t, dir, "nodes")

	oldDataDir := config.Config.DataDir
	oldCache := config.Config.ResponseCache
	config.Config.DataDir = dir
	config.Config.ResponseCache = cache.NullCache{}
	t.Cleanup(func() {
		config.Config.DataDir = oldDataDir
		config.Config.ResponseCache = oldCache
	})
}

func renderQuery(params string) string {
	return fmt.Sprintf("/render/?dataset=nodes&from=%d&until=%d%s", testEpoch-1, testEpoch+7*3600, params)
}

func TestRenderHandlerJSON(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", renderQuery("&columns=load"), nil)
	rr := httptest.NewRecorder()
	renderHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != contentTypeJSON {
		t.Errorf("got Content-Type %q, want %q", ct, contentTypeJSON)
	}
	body := rr.Body.String()
	for _, want := range []string{`"layout"`, `"elements"`, `"load"`, `"path":"M`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s", want)
		}
	}
}

func TestRenderHandlerAllColumnsByDefault(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", renderQuery(""), nil)
	rr := httptest.NewRecorder()
	renderHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"load"`) || !strings.Contains(body, `"free"`) {
		t.Errorf("expected both columns in body, got %s", body)
	}
}

func TestRenderHandlerThreshold(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", renderQuery("&columns=load&threshold=26"), nil)
	rr := httptest.NewRecorder()
	renderHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"thresholdClip"`) {
		t.Errorf("expected thresholdClip in body, got %s", body)
	}
	if !strings.Contains(body, `"highlight"`) {
		t.Errorf("expected a highlight element in body, got %s", body)
	}
}

func TestRenderHandlerJSONP(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", renderQuery("&columns=load&jsonp=cb"), nil)
	rr := httptest.NewRecorder()
	renderHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "cb(") || !strings.HasSuffix(body, ")") {
		t.Errorf("expected jsonp wrapping, got %s", body)
	}
}

func TestRenderHandlerErrors(t *testing.T) {
	setUpTestConfig(t)

	tests := []struct {
		name     string
		url      string
		wantCode int
	}{
		{"missing dataset", "/render/?dataset=absent&from=1&until=2", 404},
		{"bad dataset name", "/render/?dataset=..%2Fnodes&from=1&until=2", 400},
		{"bad format", renderQuery("&format=pdf"), 400},
		{"bad chart type", renderQuery("&type=pie"), 400},
		{"bad strategy", renderQuery("&strategy=wavelet"), 400},
		{"missing column", renderQuery("&columns=nope"), 400},
		{"empty time range", fmt.Sprintf("/render/?dataset=nodes&from=%d&until=%d", testEpoch, testEpoch), 400},
		{"no data in range", "/render/?dataset=nodes&from=100&until=200", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rr := httptest.NewRecorder()
			renderHandler(rr, req)
			if rr.Code != tt.wantCode {
				t.Errorf("got code %d, want %d, body %q", rr.Code, tt.wantCode, rr.Body.String())
			}
		})
	}
}

func TestRenderHandlerResponseCache(t *testing.T) {
	setUpTestConfig(t)
	config.Config.ResponseCache = cache.NewExpireCache(0)

	hits0 := ApiMetrics.RequestCacheHits.Value()

	url := renderQuery("&columns=load")
	req := httptest.NewRequest("GET", url, nil)
	rr := httptest.NewRecorder()
	renderHandler(rr, req)
	first := rr.Body.String()

	req = httptest.NewRequest("GET", url, nil)
	rr = httptest.NewRecorder()
	renderHandler(rr, req)
	second := rr.Body.String()

	if first != second {
		t.Errorf("cached response differs from original")
	}
	if got := ApiMetrics.RequestCacheHits.Value(); got != hits0+1 {
		t.Errorf("got %d cache hits, want %d", got, hits0+1)
	}
}

func TestRenderHandlerNoCacheSkipsCache(t *testing.T) {
	setUpTestConfig(t)
	config.Config.ResponseCache = cache.NewExpireCache(0)

	hits0 := ApiMetrics.RequestCacheHits.Value()

	url := renderQuery("&columns=load&noCache=1")
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", url, nil)
		rr := httptest.NewRecorder()
		renderHandler(rr, req)
		if rr.Code != 200 {
			t.Fatalf("got code %d", rr.Code)
		}
	}

	if got := ApiMetrics.RequestCacheHits.Value(); got != hits0 {
		t.Errorf("got %d cache hits, want %d", got, hits0)
	}
}
