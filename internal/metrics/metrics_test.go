// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func counterValue(c prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/movies/trending", "200"))

	RecordAPIRequest("GET", "/api/v1/movies/trending", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/movies/trending", "200"))
	if after != before+1 {
		t.Errorf("requests counter = %v, want %v", after, before+1)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	tests := []struct {
		name   string
		hit    bool
		result string
	}{
		{"hit", true, "hit"},
		{"miss", false, "miss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RecommendCacheLookups.WithLabelValues("hybrid", tt.result)
			before := counterValue(c)
			RecordCacheLookup("hybrid", tt.hit)
			if got := counterValue(c); got != before+1 {
				t.Errorf("%s counter = %v, want %v", tt.result, got, before+1)
			}
		})
	}
}

func TestRecordCatalogRequest_TransportError(t *testing.T) {
	c := CatalogRequestsTotal.WithLabelValues("movies", "error")
	before := counterValue(c)

	RecordCatalogRequest("movies", 0, time.Second)

	if got := counterValue(c); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}
