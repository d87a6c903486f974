package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes Prometheus collectors that report assessment activity.
type Metrics struct {
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsReset     prometheus.Counter
	answers           *prometheus.CounterVec
	overallScore      prometheus.Histogram
	capped            prometheus.Counter
	recorderFailures  prometheus.Counter
}

// MustNewMetrics registers the collectors with reg and panics on a
// registration conflict. Tests pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "sessions_started_total",
			Help:      "Assessment sessions started.",
		}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "sessions_completed_total",
			Help:      "Assessment sessions that answered the final question.",
		}),
		sessionsReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "sessions_reset_total",
			Help:      "Start-over requests.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "answers_total",
			Help:      "Answer submissions by outcome.",
		}, []string{"outcome"}),
		overallScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "overall_score",
			Help:      "Distribution of final overall scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		capped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "assessment",
			Name:      "scores_capped_total",
			Help:      "Completed assessments whose overall score was capped by the weakest pillar.",
		}),
		recorderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "freedomology",
			Subsystem: "recorder",
			Name:      "failures_total",
			Help:      "Result writes that failed.",
		}),
	}

	reg.MustRegister(
		m.sessionsStarted,
		m.sessionsCompleted,
		m.sessionsReset,
		m.answers,
		m.overallScore,
		m.capped,
		m.recorderFailures,
	)
	return m
}

func (m *Metrics) SessionStarted() { m.sessionsStarted.Inc() }
func (m *Metrics) SessionReset() { m.sessionsReset.Inc() }

func (m *Metrics) AnswerAccepted() { m.answers.WithLabelValues("accepted").Inc() }
func (m *Metrics) AnswerRejected() { m.answers.WithLabelValues("rejected").Inc() }

// SessionCompleted records a finished assessment and its final score.
func (m *Metrics) SessionCompleted(overall int, capped bool) {
	m.sessionsCompleted.Inc()
	m.overallScore.Observe(float64(overall))
	if capped {
		m.capped.Inc()
	}
}

func (m *Metrics) RecorderFailed() { m.recorderFailures.Inc() }
