package http

import (
	"net/http"
)

var usageMsg = []byte(`
supported requests:
    /render/?dataset=&columns=
    /datasets/
    /datasets/<name>
    /lb_check/
    /version/
`)

func usageHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write(usageMsg)
}
