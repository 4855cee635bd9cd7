package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// All collectors register on the default registry under Namespace.

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: name, Help: help}, labels)
}

func histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Namespace: Namespace, Name: name, Help: help, Buckets: buckets}, labels)
}

func gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Name: name, Help: help})
}

// HTTP
var (
	HTTPRequestsTotal    = counter(MetricNameHTTPRequestsTotal, HelpTextHTTPRequestsTotal, LabelMethod, LabelPath, LabelStatus)
	HTTPRequestDuration  = histogram(MetricNameHTTPRequestDuration, HelpTextHTTPRequestDuration, HTTPLatencyBuckets, LabelMethod, LabelPath)
	HTTPRequestsInFlight = gauge(MetricNameHTTPRequestsInFlight, HelpTextHTTPRequestsInFlight)
	HTTPRequestsRejected = counter(MetricNameHTTPRequestsRejected, HelpTextHTTPRequestsRejected, LabelReason)
	EventStreamClients   = gauge(MetricNameEventStreamClients, HelpTextEventStreamClients)
)

// Event bus
var (
	EventsPublished    = counter(MetricNameEventsPublished, HelpTextEventsPublished, LabelType)
	EventHandlerErrors = counter(MetricNameEventHandlerErrors, HelpTextEventHandlerErrors, LabelType)
)

// Crafting, labelled by recipe ident unless noted
var (
	CraftsStarted     = counter(MetricNameCraftsStarted, HelpTextCraftsStarted, LabelRecipe)
	CraftsCompleted   = counter(MetricNameCraftsCompleted, HelpTextCraftsCompleted, LabelRecipe)
	CraftsBlocked     = counter(MetricNameCraftsBlocked, HelpTextCraftsBlocked, LabelRecipe)
	CraftsCancelled   = counter(MetricNameCraftsCancelled, HelpTextCraftsCancelled, LabelRecipe)
	ItemsProduced     = counter(MetricNameItemsProduced, HelpTextItemsProduced, LabelRecipe)
	CraftMoves        = histogram(MetricNameCraftMoves, HelpTextCraftMoves, CraftMovesBuckets, LabelRecipe)
	ItemsDisassembled = counter(MetricNameItemsDisassembled, HelpTextItemsDisassembled, LabelItem)
	RecipesLearned    = counter(MetricNameRecipesLearned, HelpTextRecipesLearned, LabelSource)
	TrapsTriggered    = counter(MetricNameTrapsTriggered, HelpTextTrapsTriggered, LabelAction)
)
