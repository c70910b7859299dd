package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("rescuenet", reg)

	m.HTTPRequests.WithLabelValues("GET", "/api/programs", "200").Inc()
	m.OutboxEventsProcessed.Add(2)
	m.TelegramMessages.WithLabelValues("sent").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxEventsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/programs", "200")))

	var families []*dto.MetricFamily
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "rescuenet_http_requests_total")
	assert.Contains(t, names, "rescuenet_outbox_events_processed_total")
	assert.Contains(t, names, "rescuenet_telegram_messages_total")
}

func TestNopDoesNotRegister(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop()
		Nop()
	})
}
