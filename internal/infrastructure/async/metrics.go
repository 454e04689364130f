package async

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_events_published_total",
		Help: "Domain events published to the in-process bus.",
	}, []string{"type"})

	handlerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_event_handler_failures_total",
		Help: "Event handler invocations that returned an error.",
	}, []string{"type"})
)
