// ABOUTME: Sink interface for durable store snapshots
// ABOUTME: Each entity store saves its full state under a fixed key after every mutation

package persist

import "context"

// Sink writes and reads named state snapshots. Each store owns one key and
// overwrites the whole snapshot on every mutation; there is no partial
// update and no history.
type Sink interface {
	// Save serializes state and durably replaces the snapshot stored under key.
	Save(ctx context.Context, key string, state any) error

	// Load deserializes the snapshot stored under key into out. It returns
	// false with a nil error when no snapshot exists for the key.
	Load(ctx context.Context, key string, out any) (bool, error)

	// Close releases any resources held by the sink.
	Close() error
}
