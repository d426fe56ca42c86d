package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/comm-planner/model"
)

func sampleTimeline(start time.Time) *model.MissionTimeline {
	return &model.MissionTimeline{
		MissionID: "msn-obs",
		Start:     start,
		End:       start.Add(2 * time.Hour),
		Segments: []model.TimelineSegment{
			{Start: start, End: start.Add(30 * time.Minute), Status: model.StatusNominal},
			{
				Start: start.Add(30 * time.Minute), End: start.Add(45 * time.Minute),
				Status:  model.StatusDegraded,
				KaState: model.LinkOffline,
			},
			{Start: start.Add(45 * time.Minute), End: start.Add(2 * time.Hour), Status: model.StatusNominal},
		},
		Diagnostics: []model.Diagnostic{{Code: "projection_failed"}},
		Stats: model.TimelineStats{
			NominalSeconds:  6300,
			DegradedSeconds: 900,
			OfflineByLink:   model.TransportSeconds{Ka: 900},
		},
	}
}

func TestNewTimelineCollector_RegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewTimelineCollector(reg)
	require.NoError(t, err)
	second, err := NewTimelineCollector(reg)
	require.NoError(t, err)
	assert.Same(t, first.Computations, second.Computations)
	assert.Same(t, first.ComputeDuration, second.ComputeDuration)
}

func TestRecordComputation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTimelineCollector(reg)
	require.NoError(t, err)

	c.RecordComputation("ok", 25*time.Millisecond)
	c.RecordComputation("ok", 50*time.Millisecond)
	c.RecordComputation("error", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Computations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Computations.WithLabelValues("error")))

	// Latency is only observed for successful computations.
	families, err := reg.Gather()
	require.NoError(t, err)
	hist := findFamily(families, "timeline_compute_duration_seconds")
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.Metric[0].Histogram.GetSampleCount())
}

func TestObserveTimeline_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTimelineCollector(reg)
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c.ObserveTimeline(sampleTimeline(start), start)

	assert.Equal(t, 6300.0, testutil.ToFloat64(c.StatusSeconds.WithLabelValues("nominal")))
	assert.Equal(t, 900.0, testutil.ToFloat64(c.StatusSeconds.WithLabelValues("degraded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.StatusSeconds.WithLabelValues("critical")))

	assert.Equal(t, 900.0, testutil.ToFloat64(c.TransportSeconds.WithLabelValues("Ka", "offline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.TransportSeconds.WithLabelValues("X", "degraded")))

	// Observed at mission start, the degraded segment is 30 minutes out.
	assert.Equal(t, 1800.0, testutil.ToFloat64(c.NextNonNominal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TimelineDiagnostics))
}

func TestObserveTimeline_CleanRemainderReportsMinusOne(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTimelineCollector(reg)
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c.ObserveTimeline(sampleTimeline(start), start.Add(time.Hour))

	assert.Equal(t, -1.0, testutil.ToFloat64(c.NextNonNominal))
}

func TestObserveTimeline_NilSafe(t *testing.T) {
	var c *TimelineCollector
	c.RecordComputation("ok", time.Second)
	c.ObserveTimeline(nil, time.Now())
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTimelineCollector(reg)
	require.NoError(t, err)
	c.RecordComputation("ok", 10*time.Millisecond)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "timeline_computations_total"), "body:\n%s", body)
}

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}
