package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry"
	"github.com/dustin/go-humanize"

	"github.com/go-graphite/chartkit/cmd/chartkit/config"
	"github.com/go-graphite/chartkit/dataset"
	"github.com/lomik/zapwriter"
)

type datasetInfo struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	SizeBytes int64  `json:"sizeBytes"`
}

type datasetDetails struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Start   string   `json:"start,omitempty"`
	End     string   `json:"end,omitempty"`
}

func datasetsHandler(w http.ResponseWriter, r *http.Request) {
	t0 := timeNow()

	srcIP, srcPort := splitRemoteAddr(r.RemoteAddr)

	accessLogger := zapwriter.Logger("access")
	logDetails := accessLogDetails{
		Handler:  "datasets",
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
	ApiMetrics.DatasetRequests.Add(1)

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/datasets"), "/")

	var body []byte
	var err error
	if name == "" {
		body, err = listDatasets()
	} else {
		logDetails.Dataset = name
		body, err = describeDataset(name)
	}
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

	writeResponse(w, http.StatusOK, body, jsonFormat, r.FormValue("jsonp"))
	logDetails.ResponseSizeBytes = int64(len(body))
}

func listDatasets() ([]byte, error) {
	names, err := dataset.List(config.Config.DataDir)
	if err != nil {
		return nil, err
	}

	infos := make([]datasetInfo, 0, len(names))
	for _, name := range names {
		info := datasetInfo{Name: name}
		if stat, err := os.Stat(filepath.Join(config.Config.DataDir, name+".json")); err == nil {
			info.Size = humanize.Bytes(uint64(stat.Size()))
			info.SizeBytes = stat.Size()
		}
		infos = append(infos, info)
	}
	return json.Marshal(infos)
}

func describeDataset(name string) ([]byte, error) {
	ds, err := loadDataset(name)
	if err != nil {
		return nil, err
	}

	details := datasetDetails{
		Name:    ds.Name,
		Rows:    len(ds.Timestamps),
		Columns: ds.Columns,
	}
	if len(ds.Timestamps) > 0 {
		details.Start = ds.Timestamps[0].Format("2006-01-02 15:04:05")
		details.End = ds.Timestamps[len(ds.Timestamps)-1].Format("2006-01-02 15:04:05")
	}
	return json.Marshal(details)
}
