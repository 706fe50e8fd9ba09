// Package engine evaluates cabinet batch scripts. It wraps zygomys in a
// sandboxed environment and collects the cabinets a script declares:
//
//	(cabinet "sink" :type :base :length 120 :shelves 1 :doors 3 :handle :classic)
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"golang.org/x/sync/semaphore"

	"github.com/chazu/cabinetcut/pkg/cabinet"
)

// DefaultTimeout is the hard limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

// DefaultMaxCabinets caps how many cabinets one script may declare.
const DefaultMaxCabinets = 200

// DefaultMaxInFlight caps how many evaluations may run at once, counting
// timed-out ones that are still spinning.
const DefaultMaxInFlight = 4

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Item is one cabinet declared by a script. Config is not validated; the
// caller computes it and reports per-item failures.
type Item struct {
	Name   string         `json:"name"`
	Config cabinet.Config `json:"config"`
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu          sync.Mutex
	generation  uint64
	timeout     time.Duration
	maxCabinets int
	maxInFlight int64
	supersede   bool

	// slots is held by an evaluating goroutine until it returns, not until
	// its caller stops waiting.
	slots *semaphore.Weighted
	eval  func(source string) ([]Item, []EvalError)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxCabinets overrides DefaultMaxCabinets.
func WithMaxCabinets(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCabinets = n
		}
	}
}

// WithMaxInFlight overrides DefaultMaxInFlight.
func WithMaxInFlight(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxInFlight = int64(n)
		}
	}
}

// WithSupersede controls whether a newer evaluation discards the result of
// one still running. It is on by default, which suits a single live editor;
// a server evaluating independent requests turns it off.
func WithSupersede(enabled bool) Option {
	return func(e *Engine) {
		e.supersede = enabled
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout:     DefaultTimeout,
		maxCabinets: DefaultMaxCabinets,
		maxInFlight: DefaultMaxInFlight,
		supersede:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.slots = semaphore.NewWeighted(e.maxInFlight)
	e.eval = e.run
	return e
}

// Timeout reports the evaluation time limit.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// MaxInFlight reports how many evaluations may run at once.
func (e *Engine) MaxInFlight() int {
	return int(e.maxInFlight)
}

// Evaluate runs source in a fresh sandbox and returns the cabinets it
// declares, in declaration order. Parse and runtime failures in the script
// come back as EvalErrors with a nil error. The error is reserved for
// timeouts, cancellation, panics, superseded runs and ErrBusy when every
// evaluation slot is taken.
//
// zygomys cannot interrupt a running script, so a script that overruns its
// timeout keeps its goroutine and its slot until it ends on its own.
func (e *Engine) Evaluate(ctx context.Context, source string) ([]Item, []EvalError, error) {
	if !e.slots.TryAcquire(1) {
		return nil, nil, fmt.Errorf("%w: %d evaluations running", ErrBusy, e.maxInFlight)
	}
	gen := e.begin()

	ch := make(chan evalResult, 1)
	go func() {
		defer e.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		items, evalErrs := e.eval(source)
		ch <- evalResult{items: items, errors: evalErrs}
	}()

	var stale func() bool
	if e.supersede {
		stale = func() bool { return e.latest() != gen }
	}
	return await(ctx, ch, e.timeout, stale)
}

func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) latest() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) run(source string) ([]Item, []EvalError) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	// The sandbox has no filesystem or system-call builtins.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	c := newCollector(e.maxCabinets)
	registerBuiltins(env, c)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, evalErrorsFrom(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, evalErrorsFrom(err)
	}
	return c.items, nil
}

// lineRef finds "line N: msg" in zygomys errors, either at the start or
// after "on" as in "Error on line N: msg".
var lineRef = regexp.MustCompile(`(?i)(?:^|\bon )line (\d+):\s*(.*)`)

func evalErrorsFrom(err error) []EvalError {
	msg := strings.TrimSpace(err.Error())
	m := lineRef.FindStringSubmatch(msg)
	if m == nil {
		return []EvalError{{Message: msg}}
	}
	line, _ := strconv.Atoi(m[1])
	return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
}
