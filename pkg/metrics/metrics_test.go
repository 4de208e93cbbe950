package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(OperationsTotal.WithLabelValues("create_volume", ResultFailure))

	ObserveOperation("create_volume", time.Now(), errors.New("boom"))
	ObserveOperation("create_volume", time.Now(), nil)

	after := testutil.ToFloat64(OperationsTotal.WithLabelValues("create_volume", ResultFailure))
	assert.Equal(t, before+1, after)
	assert.True(t, testutil.ToFloat64(OperationsTotal.WithLabelValues("create_volume", ResultSuccess)) >= 1)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	ObserveDiscovery(DiscoveryTimeout, 30*time.Second)

	s := NewMetricsServer("127.0.0.1", 0)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "infinibox_driver_gateway_discovery_duration_seconds"))
}
