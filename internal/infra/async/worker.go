package async

import "context"

// Worker is a long running component started by the hosting app.
// Run blocks until ctx is done and calls done before returning.
type Worker interface {
	Run(ctx context.Context, done func())
	Shutdown()
}
