package main

import (
	"context"
	"testing"
	"time"

	"github.com/fantabet/fantabet/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	Convey("Given the system metrics updater", t, func() {
		Convey("When metrics are sampled", func() {
			Convey("Then sampling completes without panicking", func() {
				So(updateSystemMetrics, ShouldNotPanic)
			})
		})
	})
}

func TestSystemMetricsUpdaterStopsOnCancel(t *testing.T) {
	Convey("Given a running metrics updater", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			startSystemMetricsUpdater(ctx)
			close(done)
		}()

		Convey("When the context is cancelled", func() {
			cancel()

			Convey("Then the updater stops", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("metrics updater did not stop")
				}
			})
		})

		Reset(cancel)
	})
}
