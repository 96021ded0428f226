package http

import (
	"net/http"
	"time"

	"github.com/lomik/zapwriter"
	"go.uber.org/zap"
)

// BuildVersion is set from main at startup.
var BuildVersion = "(development build)"

func versionHandler(w http.ResponseWriter, r *http.Request) {
	t0 := timeNow()
	accessLogger := zapwriter.Logger("access")

	_, _ = w.Write([]byte(BuildVersion + "\n"))

	srcIP, srcPort := splitRemoteAddr(r.RemoteAddr)
	logDetails := accessLogDetails{
		Handler:  "version",
		Url:      r.URL.RequestURI(),
		PeerIp:   srcIP,
		PeerPort: srcPort,
		Host:     r.Host,
		Referer:  r.Referer(),
		Runtime:  time.Since(t0).Seconds(),
		HttpCode: http.StatusOK,
		Uri:      r.RequestURI,
	}
	accessLogger.Info("request served", zap.Any("data", logDetails))
}
