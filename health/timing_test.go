package health

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordTime(t *testing.T) {
	Convey("RecordTime accumulates elapsed time per method", t, func() {
		LogTime()

		start := time.Now().Add(-time.Millisecond)
		RecordTime(start, "op")
		RecordTime(start, "op")
		RecordTime(start, "other")

		timingMutex.Lock()
		defer timingMutex.Unlock()
		So(invocations["op"], ShouldEqual, 2)
		So(invocations["other"], ShouldEqual, 1)
		So(elapsed["op"], ShouldBeGreaterThan, elapsed["other"])
	})
}

func TestRecordTimeIsSafeForConcurrentUse(t *testing.T) {
	Convey("Concurrent invocations are all counted", t, func() {
		LogTime()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordTime(time.Now(), "concurrent")
				}
			}()
		}
		wg.Wait()

		timingMutex.Lock()
		defer timingMutex.Unlock()
		So(invocations["concurrent"], ShouldEqual, 1000)
	})
}

func TestLogTimeResetsCounters(t *testing.T) {
	Convey("LogTime clears the accumulated counters", t, func() {
		RecordTime(time.Now(), "op")
		LogTime()

		timingMutex.Lock()
		defer timingMutex.Unlock()
		So(len(invocations), ShouldEqual, 0)
		So(len(elapsed), ShouldEqual, 0)
	})
}
