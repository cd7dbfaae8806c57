// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Command metrics
	CommandsApplied   int64
	CommandsRejected  int64
	CommandLatencySum int64 // nanoseconds
	CommandLatencyMax int64
	LastCommandTime   time.Time

	// Event metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Game lifecycle
	GamesStarted  int64
	GamesFinished int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordCommand records a command application attempt.
func (c *Collector) RecordCommand(latency time.Duration, rejected bool) {
	if rejected {
		atomic.AddInt64(&c.CommandsRejected, 1)
	} else {
		atomic.AddInt64(&c.CommandsApplied, 1)
	}
	atomic.AddInt64(&c.CommandLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.CommandLatencyMax) {
		atomic.StoreInt64(&c.CommandLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastCommandTime = time.Now()
	c.mu.Unlock()
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordGameStart records a new match opening.
func (c *Collector) RecordGameStart() {
	atomic.AddInt64(&c.GamesStarted, 1)
}

// RecordGameEnd records a match reaching game over.
func (c *Collector) RecordGameEnd() {
	atomic.AddInt64(&c.GamesFinished, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	applied := atomic.LoadInt64(&c.CommandsApplied)
	rejected := atomic.LoadInt64(&c.CommandsRejected)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	// Calculate averages
	var cmdAvg, eventAvg float64
	if total := applied + rejected; total > 0 {
		cmdAvg = float64(atomic.LoadInt64(&c.CommandLatencySum)) / float64(total) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"commands": map[string]interface{}{
			"applied":        applied,
			"rejected":       rejected,
			"avg_latency_ms": cmdAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.CommandLatencyMax)) / 1e6,
			"last_command":   c.LastCommandTime.Format(time.RFC3339),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"games": map[string]interface{}{
			"started":  atomic.LoadInt64(&c.GamesStarted),
			"finished": atomic.LoadInt64(&c.GamesFinished),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Command metrics
		fmt.Fprintf(w, "# HELP dominion_commands_applied Total commands accepted by the engine\n")
		fmt.Fprintf(w, "# TYPE dominion_commands_applied counter\n")
		fmt.Fprintf(w, "dominion_commands_applied %d\n\n", atomic.LoadInt64(&c.CommandsApplied))

		fmt.Fprintf(w, "# HELP dominion_commands_rejected Total commands rejected by validation\n")
		fmt.Fprintf(w, "# TYPE dominion_commands_rejected counter\n")
		fmt.Fprintf(w, "dominion_commands_rejected %d\n\n", atomic.LoadInt64(&c.CommandsRejected))

		fmt.Fprintf(w, "# HELP dominion_command_latency_max_ms Maximum command latency\n")
		fmt.Fprintf(w, "# TYPE dominion_command_latency_max_ms gauge\n")
		fmt.Fprintf(w, "dominion_command_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.CommandLatencyMax))/1e6)

		// Event metrics
		fmt.Fprintf(w, "# HELP dominion_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE dominion_events_written counter\n")
		fmt.Fprintf(w, "dominion_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP dominion_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE dominion_event_write_errors counter\n")
		fmt.Fprintf(w, "dominion_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP dominion_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE dominion_ws_connections gauge\n")
		fmt.Fprintf(w, "dominion_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP dominion_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE dominion_ws_messages_total counter\n")
		fmt.Fprintf(w, "dominion_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "dominion_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Game lifecycle
		fmt.Fprintf(w, "# HELP dominion_games_started Total matches opened\n")
		fmt.Fprintf(w, "# TYPE dominion_games_started counter\n")
		fmt.Fprintf(w, "dominion_games_started %d\n\n", atomic.LoadInt64(&c.GamesStarted))

		fmt.Fprintf(w, "# HELP dominion_games_finished Total matches reaching game over\n")
		fmt.Fprintf(w, "# TYPE dominion_games_finished counter\n")
		fmt.Fprintf(w, "dominion_games_finished %d\n", atomic.LoadInt64(&c.GamesFinished))
	}
}
