package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_duration_seconds",
	Help:    "Total time spent running a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var flashcardsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "flashcards_generated_total",
	Help: "Flashcards that passed validation and were stored.",
})

var flashcardGroupsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flashcard_groups_skipped_total",
	Help: "Chunk groups that produced no flashcards, by reason.",
}, []string{"reason"})

var placeholderResults = promauto.NewCounter(prometheus.CounterOpts{
	Name: "content_placeholder_results_total",
	Help: "Content queries answered with the not-yet-processed placeholder.",
})

var topicBreadth = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "flashcard_topic_breadth",
	Help:    "Breadth ratings used to size flashcard results.",
	Buckets: []float64{.2, .3, .4, .5, .6, .7, .8, .9, 1},
}, []string{"source"})

func AddFlashcardsGenerated(n int) {
	flashcardsGenerated.Add(float64(n))
}

func IncrementGroupsSkipped(reason string) {
	flashcardGroupsSkipped.WithLabelValues(reason).Inc()
}

func IncrementPlaceholderResults() {
	placeholderResults.Inc()
}

func ObserveBreadth(source string, breadth float64) {
	topicBreadth.WithLabelValues(source).Observe(breadth)
}
