package pipeline_test

import (
	"context"
	"testing"
)

// testContext returns a context cancelled when the test ends,
// standing in for t.Context from newer Go releases.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
