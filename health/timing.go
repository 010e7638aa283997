package health

import (
	"sort"
	"sync"
	"time"

	"github.com/ONSdigital/go-ns/log"
)

var (
	timingMutex sync.Mutex
	elapsed     = make(map[string]time.Duration)
	invocations = make(map[string]int64)
)

// TrackTime records and logs the time taken by a method. Use as the first
// line in a method: defer health.TrackTime(time.Now(), "methodName")
func TrackTime(start time.Time, name string) {
	d := time.Since(start)
	record(name, d)
	log.Debug("timing", log.Data{"method": name, "elapsed": d.String()})
}

// RecordTime accumulates the time taken by a method without logging each
// invocation. Totals are reported by LogTime.
func RecordTime(start time.Time, name string) {
	record(name, time.Since(start))
}

func record(name string, d time.Duration) {
	timingMutex.Lock()
	defer timingMutex.Unlock()
	elapsed[name] += d
	invocations[name]++
}

// LogTime logs the accumulated time and invocation count per method, then
// resets the counters.
func LogTime() {
	timingMutex.Lock()
	e, inv := elapsed, invocations
	elapsed = make(map[string]time.Duration)
	invocations = make(map[string]int64)
	timingMutex.Unlock()

	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Info("timing summary", log.Data{
			"method":      name,
			"elapsed_ms":  e[name].Milliseconds(),
			"invocations": inv[name],
		})
	}
}
