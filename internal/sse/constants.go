package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 128

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 32

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 8
)

// KeepaliveInterval is how often an idle stream receives a ping
const KeepaliveInterval = 30 * time.Second

// Stream event types that do not come from the bus
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters accepted by the stream handler
const (
	QueryParamTypes   = "types"
	QueryParamCrafter = "crafter"
)

// metadataKeyCrafter mirrors the crafter key set on crafting events
const metadataKeyCrafter = "crafter"

// Log messages
const (
	LogMsgClientConnected    = "Event stream client connected"
	LogMsgClientDisconnected = "Event stream client disconnected"
	LogMsgEventBroadcast     = "Broadcasting stream event"
	LogMsgEventDropped       = "Stream buffer full, event dropped"
	LogMsgWriteError         = "Failed to write stream event"
	LogMsgStreamUnsupported  = "Streaming not supported by response writer"
	LogMsgSubscribed         = "Event stream subscribed to bus"
)
