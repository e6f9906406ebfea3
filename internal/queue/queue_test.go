package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemetrics/server/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testBatch(n int) *Batch {
	return &Batch{
		Properties: make([]models.Property, n),
		Trends:     []models.MarketTrend{{ZipCode: "80301"}},
	}
}

func TestPushAndProcess(t *testing.T) {
	q := NewBatchQueue(10, testLogger())

	var mu sync.Mutex
	var received []*Batch
	q.Subscribe(func(b *Batch) error {
		mu.Lock()
		received = append(received, b)
		mu.Unlock()
		return nil
	})

	q.Start()
	require.NoError(t, q.Push(testBatch(3)))
	require.NoError(t, q.Push(testBatch(5)))
	require.NoError(t, q.Close())
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Len(t, received[0].Properties, 3)
	assert.Len(t, received[1].Properties, 5)
}

func TestPushFullQueue(t *testing.T) {
	q := NewBatchQueue(1, testLogger())

	require.NoError(t, q.Push(testBatch(1)))
	assert.ErrorIs(t, q.Push(testBatch(1)), ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestPushClosedQueue(t *testing.T) {
	q := NewBatchQueue(10, testLogger())

	require.NoError(t, q.Close())
	assert.True(t, q.IsClosed())
	assert.ErrorIs(t, q.Push(testBatch(1)), ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	q := NewBatchQueue(10, testLogger())
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
}

func TestCloseDrainsBufferedBatches(t *testing.T) {
	q := NewBatchQueue(10, testLogger())

	var mu sync.Mutex
	processed := 0
	q.Subscribe(func(b *Batch) error {
		mu.Lock()
		processed++
		mu.Unlock()
		return nil
	})

	// Batches pushed before the worker starts stay buffered; Close followed
	// by Wait must still see all of them handled.
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(testBatch(1)))
	}
	require.NoError(t, q.Close())

	q.Start()
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, processed)
}

func TestMultipleWorkersDrainQueue(t *testing.T) {
	q := NewBatchQueue(20, testLogger())

	var mu sync.Mutex
	processed := 0
	q.Subscribe(func(b *Batch) error {
		mu.Lock()
		processed++
		mu.Unlock()
		return nil
	})

	q.Start()
	q.Start()
	q.Start()

	for i := 0; i < 20; i++ {
		require.NoError(t, q.Push(testBatch(1)))
	}
	require.NoError(t, q.Close())
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 20, processed)
}

func TestHandlerErrorDoesNotStopProcessing(t *testing.T) {
	q := NewBatchQueue(10, testLogger())

	var mu sync.Mutex
	calls := 0
	q.Subscribe(func(b *Batch) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return assert.AnError
	})

	q.Start()
	require.NoError(t, q.Push(testBatch(1)))
	require.NoError(t, q.Push(testBatch(1)))
	require.NoError(t, q.Close())

	done := make(chan struct{})
	go func() {
		q.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain after handler errors")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
