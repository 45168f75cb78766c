package types

// EventsResponse wraps the events returned by GET /events.
type EventsResponse struct {
	// Retained events, oldest first.
	Events []EventRecord `json:"events"`
	// Total events delivered since start, including those no longer retained.
	// example: 1200
	Total uint64 `json:"total" example:"1200"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid limit
	Error string `json:"error" example:"invalid limit"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// LooperStatus summarizes the delivery loop for /stats.
type LooperStatus struct {
	// example: main
	Name string `json:"name" example:"main"`
	// Units accepted by Post.
	Posted uint64 `json:"posted"`
	// Units that ran to completion.
	Executed uint64 `json:"executed"`
	// Units discarded by Quit.
	Dropped uint64 `json:"dropped"`
	// Units refused by Post (quit or full).
	Rejected uint64 `json:"rejected"`
	// Units that panicked.
	Panicked uint64 `json:"panicked"`
	// Units waiting to run.
	Depth int `json:"depth"`
	// Whether a consumer is draining the queue.
	Running bool `json:"running"`
	// Whether the loop has been asked to quit.
	Quit bool `json:"quit"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Looper LooperStatus `json:"looper"`
	// Whether the dispatcher has a listener attached.
	Armed bool `json:"armed"`
	// Events currently retained by the recorder.
	Recorded int `json:"recorded"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
