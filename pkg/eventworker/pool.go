package eventworker

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Job is one webhook event to process. Jobs with the same SenderKey are
// routed to the same worker, so a sender's own events never race each
// other (the echo-mode commands depend on this ordering).
type Job struct {
	SenderKey string
	Handler   func(ctx context.Context) error
}

// PoolStats is a point-in-time snapshot of the pool counters.
type PoolStats struct {
	NumWorkers      int   `json:"num_workers"`
	QueueSize       int   `json:"queue_size"`
	TotalDispatched int64 `json:"total_dispatched"`
	TotalProcessed  int64 `json:"total_processed"`
	TotalDropped    int64 `json:"total_dropped"`
	TotalErrors     int64 `json:"total_errors"`
}

// Pool fans webhook events out over a fixed set of workers, sharded by
// sender key. Distinct senders run concurrently.
type Pool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
}

type worker struct {
	id            int
	jobQueue      chan Job
	ctx           context.Context
	cancel        context.CancelFunc
	jobsProcessed int64
	pool          *Pool
}

func NewPool(numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Pool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

// Start launches the workers. The pool runs until Stop or ctx cancellation.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan Job, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[EVENT_WORKER_POOL] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch enqueues a job on its sender's worker without blocking and
// reports whether the job was accepted.
func (p *Pool) TryDispatch(job Job) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardForSender(job.SenderKey)
	atomic.AddInt64(&p.totalDispatched, 1)

	sent := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if sent {
		return true
	}

	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[EVENT_WORKER_POOL] Worker %d queue full (or stopped), dropping job for sender %q", shard, job.SenderKey)
	return false
}

// Stop shuts the pool down gracefully, draining queued jobs first.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		logrus.Info("[EVENT_WORKER_POOL] Stopping workers...")

		for _, w := range p.workers {
			w.cancel()
			close(w.jobQueue)
		}

		p.wg.Wait()

		logrus.Info("[EVENT_WORKER_POOL] All workers stopped")
	})
}

// shardForSender maps a sender key onto a worker. Events without a sender
// hash to a stable shard as well, which is fine: they carry no state.
func (p *Pool) shardForSender(senderKey string) int {
	h := fnv.New32a()
	h.Write([]byte(senderKey))
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (p *Pool) GetStats() PoolStats {
	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	logrus.Debugf("[EVENT_WORKER_POOL] Worker %d started", w.id)

	for job := range w.jobQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					atomic.AddInt64(&w.pool.totalErrors, 1)
					logrus.Errorf("[EVENT_WORKER_POOL] Worker %d panic for sender %q: %v", w.id, job.SenderKey, r)
				}
				atomic.AddInt64(&w.jobsProcessed, 1)
				atomic.AddInt64(&w.pool.totalProcessed, 1)
			}()

			if err := job.Handler(w.ctx); err != nil {
				atomic.AddInt64(&w.pool.totalErrors, 1)
				logrus.WithError(err).Errorf("[EVENT_WORKER_POOL] Worker %d job failed for sender %q", w.id, job.SenderKey)
			}
		}()
	}

	logrus.Debugf("[EVENT_WORKER_POOL] Worker %d shutting down", w.id)
}
