package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ONSdigital/go-ns/log"
)

// startTime anchors the uptime reported by the healthcheck.
var startTime = time.Now()

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	RenderCount   int64  `json:"render_count"`
}

// Healthcheck reports the service status, uptime and the number of timed
// calls since the last summary.
func Healthcheck(w http.ResponseWriter, req *http.Request) {
	info := healthResponse{
		Status:        "OK",
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		RenderCount:   invocationTotal(),
	}

	body, err := json.Marshal(info)
	if err != nil {
		log.ErrorC("marshal json", err, log.Data{"struct": info})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		log.ErrorC("writing json body", err, log.Data{"json": string(body)})
	}
}

// invocationTotal sums the timed invocations since the last summary.
func invocationTotal() int64 {
	timingMutex.Lock()
	defer timingMutex.Unlock()
	var n int64
	for _, count := range invocations {
		n += count
	}
	return n
}
