// Package metrics exposes Prometheus collectors for the vote store and the
// chat transport. A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "connectin_client"

// Vote outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeRolledBack      = "rolled_back"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeAlreadyPending  = "already_pending"
)

// Hydration results.
const (
	HydrationApplied   = "applied"
	HydrationSkipped   = "skipped"
	HydrationDiscarded = "discarded"
	HydrationFailed    = "failed"
)

type Metrics struct {
	Votes            *prometheus.CounterVec
	PendingVotes     prometheus.Gauge
	Hydrations       *prometheus.CounterVec
	ChannelsOpened   prometheus.Counter
	ChannelsErrored  prometheus.Counter
	MessagesReceived prometheus.Counter
	MessagesDropped  prometheus.Counter
}

// New creates the collectors and registers them with reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "votes",
			Name:      "mutations_total",
			Help:      "Vote mutations by outcome.",
		}, []string{"outcome"}),
		PendingVotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "votes",
			Name:      "pending",
			Help:      "Vote mutations currently in flight.",
		}),
		Hydrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "votes",
			Name:      "hydrations_total",
			Help:      "Vote state hydrations by result.",
		}, []string{"result"}),
		ChannelsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "channels_opened_total",
			Help:      "Chat channels that reached the open state.",
		}),
		ChannelsErrored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "channels_errored_total",
			Help:      "Chat channels that ended with a transport error.",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "messages_received_total",
			Help:      "Inbound chat messages delivered to consumers.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "messages_dropped_total",
			Help:      "Inbound frames dropped because the channel was not open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Votes, m.PendingVotes, m.Hydrations,
			m.ChannelsOpened, m.ChannelsErrored, m.MessagesReceived, m.MessagesDropped)
	}
	return m
}

func (m *Metrics) Vote(outcome string) {
	if m == nil {
		return
	}
	m.Votes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PendingInc() {
	if m == nil {
		return
	}
	m.PendingVotes.Inc()
}

func (m *Metrics) PendingDec() {
	if m == nil {
		return
	}
	m.PendingVotes.Dec()
}

func (m *Metrics) Hydration(result string) {
	if m == nil {
		return
	}
	m.Hydrations.WithLabelValues(result).Inc()
}

func (m *Metrics) ChannelOpened() {
	if m == nil {
		return
	}
	m.ChannelsOpened.Inc()
}

func (m *Metrics) ChannelErrored() {
	if m == nil {
		return
	}
	m.ChannelsErrored.Inc()
}

func (m *Metrics) MessageReceived() {
	if m == nil {
		return
	}
	m.MessagesReceived.Inc()
}

func (m *Metrics) MessageDropped() {
	if m == nil {
		return
	}
	m.MessagesDropped.Inc()
}
