// Package metrics define telemetry primitives to use across components. it uses the prometheus format.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/naumenkogs/bitcoin/log"
)

// StartCollectingMetrics begins listening and supplying metrics on localhost:`metricsPort`/metrics
func StartCollectingMetrics(metricsPort int) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(fmt.Sprintf(":%v", metricsPort), nil)
		log.With().Warning("metrics server stopped", log.Err(err))
	}()
}
