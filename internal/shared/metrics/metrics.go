package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	submissionsStarted  = newCounterVec()
	submissionsReady    = newCounterVec()
	submissionsAccepted = newCounterVec()
	submissionsFailed   = newCounterVec()

	checkoutCreatedTotal atomic.Uint64
	checkoutFailedTotal  atomic.Uint64

	webhookDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncSubmissionStarted increments the started counter for a tool.
func IncSubmissionStarted(tool string) {
	submissionsStarted.Inc(tool)
}

// IncSubmissionReady counts submissions that produced a result link.
func IncSubmissionReady(tool string) {
	submissionsReady.Inc(tool)
}

// IncSubmissionAccepted counts submissions acknowledged without a result link.
func IncSubmissionAccepted(tool string) {
	submissionsAccepted.Inc(tool)
}

// IncSubmissionFailed counts submissions that ended in an error.
func IncSubmissionFailed(tool string) {
	submissionsFailed.Inc(tool)
}

// IncCheckoutCreated increments the checkout session counter.
func IncCheckoutCreated() {
	checkoutCreatedTotal.Add(1)
}

// IncCheckoutFailed increments the failed checkout counter.
func IncCheckoutFailed() {
	checkoutFailedTotal.Add(1)
}

// ObserveWebhookDurationMs records a webhook round trip in milliseconds.
func ObserveWebhookDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	webhookDuration.Observe(value)
}

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
	writeCounterVec(&buf, "submissions_started_total", "Total tool submissions started", submissionsStarted.Snapshot())
	writeCounterVec(&buf, "submissions_ready_total", "Total tool submissions that returned a result link", submissionsReady.Snapshot())
	writeCounterVec(&buf, "submissions_accepted_total", "Total tool submissions accepted for processing", submissionsAccepted.Snapshot())
	writeCounterVec(&buf, "submissions_failed_total", "Total tool submissions that failed", submissionsFailed.Snapshot())
	writeCounter(&buf, "checkout_sessions_created_total", "Total checkout sessions created", checkoutCreatedTotal.Load())
	writeCounter(&buf, "checkout_sessions_failed_total", "Total checkout session failures", checkoutFailedTotal.Load())
	writeHistogram(&buf, "webhook_duration_ms", "Processing webhook round trip in milliseconds", webhookDuration.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(tool string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[tool]++
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
	counts  []uint64 // per bucket, not cumulative
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

func writeCounterVec(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	tools := make([]string, 0, len(values))
	for tool := range values {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		fmt.Fprintf(buf, "%s{tool=%q} %d\n", name, tool, values[tool])
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

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
