package ingest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_ProcessesQueuedImport(t *testing.T) {
	svc, s, req := newFixture(t, "anz")

	data, err := os.ReadFile("../../testdata/anz_statement.csv")
	require.NoError(t, err)
	req.Data = data

	w := NewWorker(svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, w.Imports.Enqueue(req))

	require.Eventually(t, func() bool {
		txns, err := s.Transactions().ForAccount(context.Background(), req.AccountID)
		return err == nil && len(txns) == 8
	}, 2*time.Second, 10*time.Millisecond)

	w.Stop()
}

func TestWorker_ItemFailureDoesNotStopConsumer(t *testing.T) {
	svc, s, req := newFixture(t, "anz")

	w := NewWorker(svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// First item references a missing instrument and fails; the consumer
	// keeps going and handles the second.
	bad := req
	bad.InstrumentID = uuid.New()
	require.NoError(t, w.Imports.Enqueue(bad))

	data, err := os.ReadFile("../../testdata/anz_statement.csv")
	require.NoError(t, err)
	good := req
	good.Data = data
	require.NoError(t, w.Imports.Enqueue(good))

	require.Eventually(t, func() bool {
		txns, err := s.Transactions().ForAccount(context.Background(), req.AccountID)
		return err == nil && len(txns) == 8
	}, 2*time.Second, 10*time.Millisecond)

	w.Stop()
}

func TestWorker_StopClosesQueues(t *testing.T) {
	svc, _, _ := newFixture(t, "anz")

	w := NewWorker(svc, zerolog.Nop())
	w.Start(context.Background())
	w.Stop()

	err := w.Imports.Enqueue(ImportRequest{})
	assert.Error(t, err)
}
