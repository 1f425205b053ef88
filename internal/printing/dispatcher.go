package printing

import (
	"context"
	"os"
)

// StdoutDispatcher writes rendered tickets to stdout. Stands in for a real
// print spooler in development and single-host deployments.
type StdoutDispatcher struct{}

func (StdoutDispatcher) Dispatch(_ context.Context, doc []byte) error {
	_, err := os.Stdout.Write(doc)
	return err
}
