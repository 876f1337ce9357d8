package container_test

import (
	"errors"
	"strings"

	"github.com/km-arc/venus/framework/container"
)

// ── contracts ─────────────────────────────────────────────────────────────────

type ILogger interface{ Log(msg string) }

type IA interface{ A() }

type IB interface{ B() }

type IRunner interface{ Run() string }

// ── logger / worker ───────────────────────────────────────────────────────────

type Logger struct {
	container.Singleton
	lines []string
}

func (l *Logger) Log(msg string) { l.lines = append(l.lines, msg) }

func NewLogger() *Logger { return &Logger{} }

type Worker struct {
	container.Transient
	Log ILogger
}

func NewWorker(log ILogger) *Worker { return &Worker{Log: log} }

// ── cycle ─────────────────────────────────────────────────────────────────────

type ServiceA struct {
	container.Transient
	b IB
}

func (*ServiceA) A() {}

func NewServiceA(b IB) *ServiceA { return &ServiceA{b: b} }

type ServiceB struct {
	container.Transient
	a IA
}

func (*ServiceB) B() {}

func NewServiceB(a IA) *ServiceB { return &ServiceB{a: a} }

// ── defaults ──────────────────────────────────────────────────────────────────

type ServiceC struct {
	container.Transient
	Count int
}

func NewServiceC(count int) *ServiceC { return &ServiceC{Count: count} }

// ── misconfigured ─────────────────────────────────────────────────────────────

type Both struct {
	container.Transient
	container.Singleton
}

func NewBoth() *Both { return &Both{} }

type Failing struct{ container.Singleton }

var errBoom = errors.New("boom")

func NewFailing() (*Failing, error) { return nil, errBoom }

type Panicking struct{ container.Transient }

func NewPanicking() *Panicking { panic("constructor exploded") }

type Nilly struct{ container.Transient }

func NewNilly() *Nilly { return nil }

// ── unmanaged root ────────────────────────────────────────────────────────────

// Dependent carries no marker and is only ever resolved as a root.
type Dependent struct {
	Runner IRunner
}

func NewDependent(r IRunner) *Dependent { return &Dependent{Runner: r} }

type OperationRunner struct{ container.Transient }

func (*OperationRunner) Run() string { return "running" }

func NewOperationRunner() *OperationRunner { return &OperationRunner{} }

// BackRunner depends on the unmanaged root that depends on it.
type BackRunner struct {
	container.Transient
	d *Dependent
}

func (*BackRunner) Run() string { return "never" }

func NewBackRunner(d *Dependent) *BackRunner { return &BackRunner{d: d} }

// ── competing implementers ────────────────────────────────────────────────────

type ConsoleLogger struct{ container.Singleton }

func (*ConsoleLogger) Log(string) {}

func NewConsoleLogger() *ConsoleLogger { return &ConsoleLogger{} }

type Reporter struct {
	container.Transient
	Log ILogger
}

func NewReporter(log ILogger) *Reporter { return &Reporter{Log: log} }

// ── mixed ─────────────────────────────────────────────────────────────────────

type Counter struct {
	container.Singleton
	n int
}

func (c *Counter) Next() int { c.n++; return c.n }

type Pool struct {
	container.Transient
	Size   int
	Logger ILogger
}

func NewPool(size int, log ILogger) *Pool { return &Pool{Size: size, Logger: log} }

type Self struct {
	container.Singleton
	R *container.Resolver
}

func NewSelf(r *container.Resolver) *Self { return &Self{R: r} }

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

// Reentrant calls back into the resolver that is building it.
type Reentrant struct {
	container.Singleton
	State       container.State
	ResolveErr  error
	RegisterErr error
	Has         bool
	Bindings    []container.Binding
}

func NewReentrant(r *container.Resolver) *Reentrant {
	_, err := r.Resolve(container.TypeOf[*Logger]())
	return &Reentrant{
		State:       r.State(),
		ResolveErr:  err,
		RegisterErr: r.Register(),
		Has:         r.Has(container.TypeOf[*Logger]()),
		Bindings:    r.Describe(),
	}
}

type Impatient struct{ container.Singleton }

func NewImpatient(r *container.Resolver) (*Impatient, error) {
	if _, err := r.Resolve(container.TypeOf[*Logger]()); err != nil {
		return nil, err
	}
	return &Impatient{}, nil
}
