package http

import (
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry"

	"github.com/go-graphite/chartkit/chart"
	"github.com/go-graphite/chartkit/cmd/chartkit/config"
	"github.com/go-graphite/chartkit/dataset"
	"github.com/go-graphite/chartkit/date"
	"github.com/go-graphite/chartkit/downsample"
	"github.com/go-graphite/chartkit/render"
	"github.com/lomik/zapwriter"
	"go.uber.org/zap"
)

var variantNames = map[string]chart.Variant{
	"":     chart.VariantLine,
	"line": chart.VariantLine,
	"area": chart.VariantArea,
	"bar":  chart.VariantBar,
}

func renderHandler(w http.ResponseWriter, r *http.Request) {
	t0 := timeNow()

	logger := zapwriter.Logger("render")

	srcIP, srcPort := splitRemoteAddr(r.RemoteAddr)

	accessLogger := zapwriter.Logger("access")
	logDetails := accessLogDetails{
		Handler:  "render",
		Url:      r.URL.RequestURI(),
		PeerIp:   srcIP,
		PeerPort: srcPort,
		Host:     r.Host,
		Referer:  r.Referer(),
		Uri:      r.RequestURI,
	}

	logAsError := false
	defer func() {
		deferredAccessLogging(accessLogger, &logDetails, t0, logAsError)
	}()

	ApiMetrics.Requests.Add(1)
	ApiMetrics.RenderRequests.Add(1)

	err := r.ParseForm()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest)+": "+err.Error(), http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = err.Error()
		logAsError = true
		return
	}

	format, ok, formatRaw := getFormat(r, jsonFormat)
	if !ok {
		http.Error(w, "unsupported format: "+formatRaw, http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = "unsupported format " + formatRaw
		logAsError = true
		return
	}

	if (format == pngFormat || format == svgFormat) && !render.HaveGraphSupport {
		http.Error(w, "this binary was compiled without graph support", http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = "graph support is not compiled in"
		logAsError = true
		return
	}

	var jsonp string
	if format == jsonFormat {
		jsonp = r.FormValue("jsonp")
	}

	useCache := !truthyBool(r.FormValue("noCache"))

	cacheTimeout := config.Config.Cache.DefaultTimeoutSec
	if tstr := r.FormValue("cacheTimeout"); tstr != "" {
		t, err := strconv.Atoi(tstr)
		if err != nil {
			logger.Error("failed to parse cacheTimeout",
				zap.String("cache_string", tstr),
				zap.Error(err),
			)
		} else {
			cacheTimeout = int32(t)
		}
	}

	// make sure the cache key doesn't say noCache, because it will never hit
	r.Form.Del("noCache")

	// jsonp callback names are frequently autogenerated and hurt our cache
	r.Form.Del("jsonp")

	// Strip some cache-busters. If you don't want to cache, use noCache=1
	r.Form.Del("_salt")
	r.Form.Del("_ts")
	r.Form.Del("_t") // Used by jquery.graphite.js

	cacheKey := r.Form.Encode()

	qtz := r.FormValue("tz")
	from := r.FormValue("from")
	until := r.FormValue("until")
	from32 := date.ParamToEpoch(from, qtz, timeNow().Add(-24*time.Hour).Unix(), config.Config.DefaultTimeZone)
	until32 := date.ParamToEpoch(until, qtz, timeNow().Unix(), config.Config.DefaultTimeZone)

	name := r.FormValue("dataset")
	columns := splitColumns(r.FormValue("columns"))

	logDetails.UseCache = useCache
	logDetails.FromRaw = from
	logDetails.From = from32
	logDetails.UntilRaw = until
	logDetails.Until = until32
	logDetails.Tz = qtz
	logDetails.CacheTimeout = cacheTimeout
	logDetails.Format = format.String()
	logDetails.Dataset = name
	logDetails.Columns = columns

	if useCache {
		tc := time.Now()
		response, err := config.Config.ResponseCache.Get(cacheKey)
		td := time.Since(tc).Nanoseconds()
		ApiMetrics.RenderCacheOverheadNS.Add(td)

		if err == nil {
			ApiMetrics.RequestCacheHits.Add(1)
			writeResponse(w, http.StatusOK, response, format, jsonp)
			logDetails.FromCache = true
			logDetails.ResponseSizeBytes = int64(len(response))
			return
		}
		ApiMetrics.RequestCacheMisses.Add(1)
	}

	if from32 == until32 {
		http.Error(w, "invalid empty time range", http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = "invalid empty time range"
		logAsError = true
		return
	}

	variant, ok := variantNames[r.FormValue("type")]
	if !ok {
		http.Error(w, "unknown chart type: "+r.FormValue("type"), http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = "unknown chart type " + r.FormValue("type")
		logAsError = true
		return
	}

	strategy, err := downsample.ParseStrategy(r.FormValue("strategy"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = err.Error()
		logAsError = true
		return
	}

	ds, err := loadDataset(name)
	if err != nil {
		code := http.StatusInternalServerError
		if merry.Is(err, dataset.ErrNotFound) {
			code = http.StatusNotFound
		} else if merry.Is(err, dataset.ErrMalformed) || merry.Is(err, dataset.ErrBadTimestamp) || merry.Is(err, errBadDatasetName) {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		logDetails.HttpCode = int32(code)
		logDetails.Reason = err.Error()
		logAsError = true
		return
	}

	ds = ds.Slice(from32, until32)

	if len(columns) == 0 {
		columns = ds.Columns
	}

	series, err := ds.Series(columns, variant, render.DefaultColorList)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = err.Error()
		logAsError = true
		return
	}

	for _, col := range splitColumns(r.FormValue("secondY")) {
		for _, s := range series {
			if s.Name == col {
				s.Axis = chart.AxisSecondary
			}
		}
	}

	if tstr := r.FormValue("threshold"); tstr != "" {
		th, err := thresholdSeries(ds, tstr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			logDetails.HttpCode = http.StatusBadRequest
			logDetails.Reason = err.Error()
			logAsError = true
			return
		}
		series = append(series, th)
	}

	req := render.NewRequest()
	req.Title = r.FormValue("title")
	req.Timestamps = ds.Timestamps
	req.Series = series
	req.Stacked = truthyBool(r.FormValue("stacked"))
	req.HideLegend = truthyBool(r.FormValue("hideLegend"))
	req.Strategy = strategy
	req.Width = config.Config.Picture.Width
	req.Height = config.Config.Picture.Height
	req.MaxPoints = config.Config.MaxDataPoints

	if wstr := r.FormValue("width"); wstr != "" {
		if v, err := strconv.ParseFloat(wstr, 64); err == nil && v > 0 {
			req.Width = v
		}
	}
	if hstr := r.FormValue("height"); hstr != "" {
		if v, err := strconv.ParseFloat(hstr, 64); err == nil && v > 0 {
			req.Height = v
		}
	}
	if mstr := r.FormValue("maxPoints"); mstr != "" {
		if v, err := strconv.Atoi(mstr); err == nil {
			req.MaxPoints = v
		}
	}
	if ystr := r.FormValue("yMin"); ystr != "" {
		if v, err := strconv.ParseFloat(ystr, 64); err == nil {
			req.YMin = v
		}
	}
	if ystr := r.FormValue("yMax"); ystr != "" {
		if v, err := strconv.ParseFloat(ystr, 64); err == nil {
			req.YMax = v
		}
	}

	g, err := render.Build(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		logDetails.HttpCode = http.StatusInternalServerError
		logDetails.Reason = err.Error()
		logAsError = true
		return
	}
	if g == nil {
		http.Error(w, "no renderable data in range", http.StatusBadRequest)
		logDetails.HttpCode = http.StatusBadRequest
		logDetails.Reason = "no renderable data in range"
		logAsError = true
		return
	}

	var body []byte
	switch format {
	case jsonFormat:
		body, err = render.MarshalJSON(g)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			logDetails.HttpCode = http.StatusInternalServerError
			logDetails.Reason = err.Error()
			logAsError = true
			return
		}
	case pngFormat:
		body = render.MarshalPNG(g)
	case svgFormat:
		body = render.MarshalSVG(g)
	}

	writeResponse(w, http.StatusOK, body, format, jsonp)
	logDetails.ResponseSizeBytes = int64(len(body))

	if len(body) != 0 {
		tc := time.Now()
		config.Config.ResponseCache.Set(cacheKey, body, cacheTimeout)
		td := time.Since(tc).Nanoseconds()
		ApiMetrics.RenderCacheOverheadNS.Add(td)
	}
}

var errBadDatasetName = merry.New("bad dataset name")

func loadDataset(name string) (*dataset.Dataset, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, errBadDatasetName.WithValue("dataset", name)
	}
	return dataset.Load(filepath.Join(config.Config.DataDir, name+".json"))
}

func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// thresholdSeries resolves the threshold parameter: a number produces a
// constant line, anything else names a dataset column.
func thresholdSeries(ds *dataset.Dataset, param string) (*chart.Series, error) {
	if v, err := strconv.ParseFloat(param, 64); err == nil && !math.IsNaN(v) {
		values := make([]float64, len(ds.Timestamps))
		for i := range values {
			values[i] = v
		}
		return &chart.Series{
			Name:    "threshold",
			Color:   "black",
			Variant: chart.VariantThreshold,
			Values:  values,
		}, nil
	}

	values, err := ds.Column(param)
	if err != nil {
		return nil, err
	}
	return &chart.Series{
		Name:    param,
		Color:   "black",
		Variant: chart.VariantThreshold,
		Values:  values,
	}, nil
}
