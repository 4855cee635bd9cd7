package metrics

// Namespace prefixes every metric name
const Namespace = "ashfall"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRequestsRejected = "http_requests_rejected_total"
	MetricNameEventStreamClients   = "event_stream_clients"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Crafting metric names
const (
	MetricNameCraftsStarted     = "crafts_started_total"
	MetricNameCraftsCompleted   = "crafts_completed_total"
	MetricNameCraftsBlocked     = "crafts_blocked_total"
	MetricNameCraftsCancelled   = "crafts_cancelled_total"
	MetricNameItemsProduced     = "items_produced_total"
	MetricNameCraftMoves        = "craft_moves"
	MetricNameItemsDisassembled = "items_disassembled_total"
	MetricNameRecipesLearned    = "recipes_learned_total"
	MetricNameTrapsTriggered    = "traps_triggered_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRequestsRejected = "Requests rejected before routing, by reason"
	HelpTextEventStreamClients   = "Connected event stream clients"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Crafting metric help text
const (
	HelpTextCraftsStarted     = "Total number of crafts scheduled"
	HelpTextCraftsCompleted   = "Total number of crafts completed"
	HelpTextCraftsBlocked     = "Total number of crafts blocked on missing components"
	HelpTextCraftsCancelled   = "Total number of crafts cancelled before consumption"
	HelpTextItemsProduced     = "Total number of result items produced by crafting"
	HelpTextCraftMoves        = "Moves a craft batch is scheduled to take"
	HelpTextItemsDisassembled = "Total number of items disassembled"
	HelpTextRecipesLearned    = "Total number of recipes learned"
	HelpTextTrapsTriggered    = "Total number of traps triggered"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelRecipe = "recipe"
	LabelItem   = "item"
	LabelSource = "source"
	LabelAction = "action"
	LabelReason = "reason"
)

// PathUnmatched labels requests that matched no route
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// CraftMovesBuckets spans one turn (100 moves) to a full in-game day
var CraftMovesBuckets = []float64{100, 500, 1000, 3000, 6000, 18000, 36000, 144000, 864000}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
