// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values prevents drift between boundaries and makes the
// durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// UpstreamQuery caps a single document-store query round trip.
const UpstreamQuery = 10 * time.Second

// UpstreamAsset caps an asset CDN fetch, which streams larger payloads.
const UpstreamAsset = 30 * time.Second

// Provider caps a transactional-email or mailing-list provider call.
const Provider = 15 * time.Second
