package application

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// cleanupFailures counts best-effort deletes that did not succeed.
// Served on /api/debug/vars.
var cleanupFailures = expvar.NewInt("asset_cleanup_failures")

// CleanupFailureCount returns the process-wide cleanup failure counter.
func CleanupFailureCount() int64 { return cleanupFailures.Value() }

var errForeignObject = errors.New("object url is not managed by this store")

// ObjectKeyResolver maps stored image URLs back to object keys.
type ObjectKeyResolver interface {
	KeyFromURL(url string) (string, bool)
}

// ObjectDeleter removes objects. Deleting a missing object succeeds.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Reaper disposes of image objects that no card references any more.
// Reap never blocks on storage and never reports failures to the caller.
type Reaper interface {
	Reap(objectURL string)
	Close()
}

// CleanupFailure describes one failed delete.
type CleanupFailure struct {
	URL string
	Key string
	Err error
}

// CleanupStore resolves and deletes stored objects.
type CleanupStore interface {
	ObjectKeyResolver
	ObjectDeleter
}

// AsyncReaper deletes each object on its own goroutine. Failures travel on
// a dedicated channel to an observer that only logs and counts them.
type AsyncReaper struct {
	store   CleanupStore
	logger  logrus.FieldLogger
	timeout time.Duration

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	failures chan CleanupFailure
	observed chan struct{}
}

func NewAsyncReaper(store CleanupStore, logger logrus.FieldLogger, timeout time.Duration) *AsyncReaper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &AsyncReaper{
		store:    store,
		logger:   logger,
		timeout:  timeout,
		failures: make(chan CleanupFailure, 64),
		observed: make(chan struct{}),
	}
	go r.observe()
	return r
}

func (r *AsyncReaper) Reap(objectURL string) {
	if objectURL == "" {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		recordCleanupFailure(r.logger, CleanupFailure{URL: objectURL, Err: errors.New("reaper closed")})
		return
	}
	r.inflight.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.inflight.Done()
		key, ok := r.store.KeyFromURL(objectURL)
		if !ok {
			r.failures <- CleanupFailure{URL: objectURL, Err: errForeignObject}
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.store.Delete(ctx, key); err != nil {
			r.failures <- CleanupFailure{URL: objectURL, Key: key, Err: err}
			return
		}
		if r.logger != nil {
			r.logger.WithField("key", key).Debug("replaced card image deleted")
		}
	}()
}

func (r *AsyncReaper) observe() {
	defer close(r.observed)
	for f := range r.failures {
		recordCleanupFailure(r.logger, f)
	}
}

// Close waits for in-flight deletes and the failure observer to finish.
// Later Reap calls are counted as failures.
func (r *AsyncReaper) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.observed
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.inflight.Wait()
	close(r.failures)
	<-r.observed
}

func recordCleanupFailure(logger logrus.FieldLogger, f CleanupFailure) {
	cleanupFailures.Add(1)
	if logger == nil {
		return
	}
	logger.WithError(f.Err).WithFields(logrus.Fields{
		"url": f.URL,
		"key": f.Key,
	}).Warn("asset cleanup failed")
}

// CleanupJob is the queue message consumed by cmd/cleanup_worker.
type CleanupJob struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// JobPublisher is satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueReaper hands deletes to a worker process through a message queue.
type QueueReaper struct {
	keys    ObjectKeyResolver
	pub     JobPublisher
	logger  logrus.FieldLogger
	timeout time.Duration
}

func NewQueueReaper(keys ObjectKeyResolver, pub JobPublisher, logger logrus.FieldLogger) *QueueReaper {
	return &QueueReaper{keys: keys, pub: pub, logger: logger, timeout: 5 * time.Second}
}

func (q *QueueReaper) Reap(objectURL string) {
	if objectURL == "" {
		return
	}
	key, ok := q.keys.KeyFromURL(objectURL)
	if !ok {
		recordCleanupFailure(q.logger, CleanupFailure{URL: objectURL, Err: errForeignObject})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	job := CleanupJob{Key: key, URL: objectURL, EnqueuedAt: time.Now().UTC()}
	if err := q.pub.PublishJSON(ctx, job); err != nil {
		recordCleanupFailure(q.logger, CleanupFailure{URL: objectURL, Key: key, Err: fmt.Errorf("enqueue cleanup: %w", err)})
	}
}

func (q *QueueReaper) Close() {}

// ProcessCleanupJob deletes the object named by a queued job. Failures are
// logged and counted; the caller acknowledges the message either way.
func ProcessCleanupJob(ctx context.Context, store ObjectDeleter, body []byte, logger logrus.FieldLogger) {
	var job CleanupJob
	if err := json.Unmarshal(body, &job); err != nil {
		recordCleanupFailure(logger, CleanupFailure{Err: fmt.Errorf("decode cleanup job: %w", err)})
		return
	}
	if job.Key == "" {
		recordCleanupFailure(logger, CleanupFailure{URL: job.URL, Err: errors.New("cleanup job without key")})
		return
	}
	if err := store.Delete(ctx, job.Key); err != nil {
		recordCleanupFailure(logger, CleanupFailure{URL: job.URL, Key: job.Key, Err: err})
		return
	}
	if logger != nil {
		logger.WithField("key", job.Key).Info("queued card image deleted")
	}
}
