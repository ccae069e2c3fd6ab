package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	sessionsCreatedTotal atomic.Uint64
	mutationsTotal       atomic.Uint64
	mutationErrorsTotal  atomic.Uint64
	exportsFailedTotal   atomic.Uint64

	rendersByTemplate = newCounterVec()
	exportsByFormat   = newCounterVec()

	renderDuration = newHistogram([]float64{1, 2, 5, 10, 25, 50, 100, 250})
	exportDuration = newHistogram([]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

func IncSessionCreated() { sessionsCreatedTotal.Add(1) }

// IncMutation counts one document or view-state change; failed reports
// whether it was rejected.
func IncMutation(failed bool) {
	mutationsTotal.Add(1)
	if failed {
		mutationErrorsTotal.Add(1)
	}
}

// ObserveRender records a template render.
func ObserveRender(templateID string, durationMs float64) {
	rendersByTemplate.Inc(templateID)
	renderDuration.Observe(clampZero(durationMs))
}

// ObserveExport records a successful export.
func ObserveExport(format string, durationMs float64) {
	exportsByFormat.Inc(format)
	exportDuration.Observe(clampZero(durationMs))
}

func IncExportFailed() { exportsFailedTotal.Add(1) }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "sessions_created_total", "Total editor sessions created", sessionsCreatedTotal.Load())
	writeCounter(&buf, "mutations_total", "Total session mutations", mutationsTotal.Load())
	writeCounter(&buf, "mutation_errors_total", "Total rejected session mutations", mutationErrorsTotal.Load())
	writeCounterVec(&buf, "renders_total", "Total template renders", "template", rendersByTemplate.Snapshot())
	writeHistogram(&buf, "render_duration_ms", "Template render duration in milliseconds", renderDuration.Snapshot())
	writeCounterVec(&buf, "exports_total", "Total successful exports", "format", exportsByFormat.Snapshot())
	writeCounter(&buf, "exports_failed_total", "Total failed exports", exportsFailedTotal.Load())
	writeHistogram(&buf, "export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[label]++
}

func (v *counterVec) Snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe puts value in the first bucket that holds it; writeHistogram
// accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
