package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

const namespace = "innervoice"

type Service struct {
	registry *prometheus.Registry

	turns              *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	facts              *prometheus.CounterVec
	moodScore          prometheus.Histogram
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(), nil
}

func NewService() *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Service{
		registry: registry,
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Chat turns processed by outcome",
			},
			[]string{"outcome"},
		),
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "completion_duration_seconds",
				Help:      "Completion endpoint latency by outcome",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		facts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "memory_facts_total",
				Help:      "Facts learned from user utterances by category",
			},
			[]string{"category"},
		),
		moodScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mood_score",
				Help:      "Sentiment score of user utterances",
				Buckets:   prometheus.LinearBuckets(-5, 1, 11),
			},
		),
	}

	registry.MustRegister(s.turns, s.completionDuration, s.facts, s.moodScore)

	return s
}

func (s *Service) IncTurn(outcome string) {
	s.turns.WithLabelValues(outcome).Inc()
}

func (s *Service) ObserveCompletion(duration time.Duration, outcome string) {
	s.completionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (s *Service) IncFact(category string) {
	s.facts.WithLabelValues(category).Inc()
}

func (s *Service) ObserveMood(score int) {
	s.moodScore.Observe(float64(score))
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
