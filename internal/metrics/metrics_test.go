package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-toolkit/internal/client"
	"trading-toolkit/internal/database"
)

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	client.RequestsTotal().WithLabelValues("kite", "ok").Inc()
	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "trading_toolkit_http_requests_total")
}

func TestSaveAndLoadRequestCounters(t *testing.T) {
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "metrics.db")))
	defer database.CloseDB()

	client.RequestsTotal().WithLabelValues("kohan", "503").Add(4)
	SaveToDB()

	saved, err := database.GetMetricsWithLabels(requestsMetric)
	require.NoError(t, err)
	assert.Equal(t, 4.0, saved["kohan"]["503"])

	LoadFromDB()
	saved, err = database.GetMetricsWithLabels(requestsMetric)
	require.NoError(t, err)
	assert.Equal(t, 4.0, saved["kohan"]["503"], "loading must not write back")
}
