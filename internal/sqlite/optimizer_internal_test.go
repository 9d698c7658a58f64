package sqlite

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/learnpref/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestDatabase_optimize(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db, err := connect(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	done := make(chan struct{})
	go func() {
		db.optimize(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("optimizer did not stop after cancellation")
	}
}
