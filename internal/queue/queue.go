package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Batch is one unit of persistence work: the output of a pipeline run.
type Batch struct {
	Properties []models.Property
	Trends     []models.MarketTrend
}

// BatchQueue is an in-memory queue of persistence batches.
type BatchQueue struct {
	items    chan *Batch
	workers  sync.WaitGroup
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(*Batch) error
}

// NewBatchQueue creates a new batch queue with the specified buffer size.
func NewBatchQueue(bufferSize int, logger *logrus.Logger) *BatchQueue {
	return &BatchQueue{
		items:    make(chan *Batch, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*Batch) error, 0),
	}
}

// Push adds a batch to the queue without blocking.
func (q *BatchQueue) Push(batch *Batch) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- batch:
		q.logger.WithFields(logrus.Fields{
			"num_properties": len(batch.Properties),
			"num_trends":     len(batch.Trends),
		}).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *BatchQueue) Subscribe(handler func(*Batch) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches one worker draining the queue. It may be called more than
// once for concurrent workers.
func (q *BatchQueue) Start() {
	q.workers.Add(1)
	go q.process()
}

// process drains the queue until it is closed.
func (q *BatchQueue) process() {
	defer q.workers.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers.
func (q *BatchQueue) processBatch(batch *Batch) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added. Buffered
// batches are still drained.
func (q *BatchQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	return nil
}

// Wait blocks until every worker has drained its remaining batches after
// Close.
func (q *BatchQueue) Wait() {
	q.workers.Wait()
}

// Len returns the current number of batches in the queue.
func (q *BatchQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *BatchQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
