package http

import (
	"net/http"
	"time"

	"github.com/lomik/zapwriter"
	"go.uber.org/zap"
)

func lbcheckHandler(w http.ResponseWriter, r *http.Request) {
	t0 := timeNow()
	accessLogger := zapwriter.Logger("access")

	_, _ = w.Write([]byte("Ok\n"))

	srcIP, srcPort := splitRemoteAddr(r.RemoteAddr)

	logDetails := accessLogDetails{
		Handler:  "lbcheck",
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
