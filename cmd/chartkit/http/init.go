package http

import (
	"net/http"

	"github.com/dgryski/httputil"
)

func InitHandlers() *http.ServeMux {
	r := http.DefaultServeMux
	r.HandleFunc("/render/", httputil.TrackConnections(httputil.TimeHandler(renderHandler, bucketRequestTimes)))
	r.HandleFunc("/render", httputil.TrackConnections(httputil.TimeHandler(renderHandler, bucketRequestTimes)))

	r.HandleFunc("/datasets/", httputil.TrackConnections(httputil.TimeHandler(datasetsHandler, bucketRequestTimes)))
	r.HandleFunc("/datasets", httputil.TrackConnections(httputil.TimeHandler(datasetsHandler, bucketRequestTimes)))

	r.HandleFunc("/lb_check", lbcheckHandler)

	r.HandleFunc("/version", versionHandler)
	r.HandleFunc("/version/", versionHandler)

	r.HandleFunc("/", usageHandler)
	return r
}
