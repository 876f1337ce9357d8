package app

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/venus/framework/container"
)

// ── OperationRunner ───────────────────────────────────────────────────────────

// OperationRunner is transient: every resolution gets a new ID.
type OperationRunner struct {
	container.Transient
	id    uuid.UUID
	log   *zap.Logger
	clock Clock
}

func NewOperationRunner(log *zap.Logger, clock Clock) *OperationRunner {
	return &OperationRunner{id: uuid.New(), log: log, clock: clock}
}

func (r *OperationRunner) ID() string { return r.id.String() }

func (r *OperationRunner) Run() Operation {
	op := Operation{RunnerID: r.id.String(), At: r.clock.Now()}
	r.log.Debug("operation run", zap.String("runner_id", op.RunnerID))
	return op
}

// ── VisitCounter ──────────────────────────────────────────────────────────────

// VisitCounter is a singleton shared by every Dependent.
type VisitCounter struct {
	container.Singleton
	n atomic.Int64
}

func NewVisitCounter() *VisitCounter { return &VisitCounter{} }

func (c *VisitCounter) Next() int64    { return c.n.Add(1) }
func (c *VisitCounter) Current() int64 { return c.n.Load() }

// ── SystemClock ───────────────────────────────────────────────────────────────

type SystemClock struct {
	container.Singleton
}

func NewSystemClock() *SystemClock { return &SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ── Dependent ─────────────────────────────────────────────────────────────────

// Dependent carries no lifecycle marker. It is never bound to a contract and
// is built fresh for every resolution, with its own Runner and the shared
// Counter.
type Dependent struct {
	runner  Runner
	counter Counter
}

func NewDependent(runner Runner, counter Counter) *Dependent {
	return &Dependent{runner: runner, counter: counter}
}

// Visit is what one Dependent reports for one request.
type Visit struct {
	Number    int64     `json:"number"`
	Operation Operation `json:"operation"`
}

func (d *Dependent) Handle() Visit {
	return Visit{Number: d.counter.Next(), Operation: d.runner.Run()}
}
