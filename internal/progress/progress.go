// Package progress defines the progress messages exchanged between the
// orchestration layer and whatever displays them.
package progress

import "context"

// ProgressUpdate reports the completion of one concurrent task.
type ProgressUpdate struct {
	// TaskIndex identifies the task (scenario or sensitivity row).
	TaskIndex int
	// Value is the completion fraction in [0, 1].
	Value float64
}

// ProgressCallback receives completion fractions for a single task.
type ProgressCallback func(value float64)

// ChannelCallback returns a callback that forwards values for task index to
// ch. Sends are abandoned when ctx is done so a stalled reader cannot block
// an evaluation. A nil channel yields a no-op callback.
func ChannelCallback(ctx context.Context, ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	return func(value float64) {
		select {
		case ch <- ProgressUpdate{TaskIndex: index, Value: value}:
		case <-ctx.Done():
		}
	}
}
