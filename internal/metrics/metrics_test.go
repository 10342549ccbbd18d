package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithNamespace("test"), WithRegistry(registry))

		Convey("When deliveries are observed", func() {
			manager.ObserveDelivery("push", nil)
			manager.ObserveDelivery("push", errors.New("boom"))
			manager.ObserveDelivery("stored", nil)

			Convey("Then outcomes are counted per channel", func() {
				So(testutil.ToFloat64(manager.deliveries.WithLabelValues("push", "success")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.deliveries.WithLabelValues("push", "failure")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.deliveries.WithLabelValues("stored", "success")), ShouldEqual, 1)
			})
		})

		Convey("When a matching run is observed", func() {
			manager.ObserveMatching("find_best", time.Now(), 4)

			Convey("Then scored trainers are added", func() {
				So(testutil.ToFloat64(manager.trainersScored.WithLabelValues("find_best")), ShouldEqual, 4)
			})
		})
	})

	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				manager.ObserveMatching("find_best", time.Now(), 1)
				manager.IncLookupFallback("availability")
				manager.ObserveDelivery("push", nil)
				manager.IncSkipped("no_targets")
			}, ShouldNotPanic)
		})
	})
}
