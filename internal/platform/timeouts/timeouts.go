// Package timeouts defines shared timeout constants for the HTTP surface.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StorageWrite caps one form state write. Writes are detached from request
// cancellation so a closed browser tab still persists its last edit.
const StorageWrite = 2 * time.Second
