// Package accelctx implements the process-wide context described in
// spec §5/§6: the shared type registry, a centralized node-sequence
// allocator, and a tracing collector for shared IR objects (types,
// instructions, modules, blocks). Mirrors the teacher's memory package
// contexts (RegionContext, GenRefContext, ConstraintContext): one
// struct, one mutex, explicit create/destroy lifecycle.
package accelctx

import (
	"fmt"
	"sync"

	"accelir/pkg/types"
)

// Traceable is implemented by every shared IR object that can own
// references to other shared objects: blocks, modules, and any
// instruction payload that embeds a block or a NodeRef slice. Trace
// must enumerate every outgoing shared reference — spec §9 calls out
// Argument, Comment, and GenericLoop as cases an incomplete Trace
// walker has historically missed; accelir requires full coverage.
type Traceable interface {
	Trace() []Traceable
}

// Context is the "context" of spec §5/§6: it owns the type registry
// and the node-sequence allocator, and tracks every object handed to
// AppendObject for the tracing collector. The context's mutex guards
// the sequence allocator, the object list and the root set; the type
// registry is guarded by its own lock inside types.Registry, not by
// this one.
type Context struct {
	mu sync.Mutex

	Types *types.Registry

	nextSeq uint64
	objects []Traceable
	roots   map[Traceable]struct{}
	alive   bool
}

var (
	globalMu      sync.Mutex
	globalCurrent *Context
)

// CreateContext allocates a fresh, empty context (foreign entry point
// create_context, spec §6).
func CreateContext() *Context {
	return &Context{
		Types: types.NewRegistry(),
		roots: make(map[Traceable]struct{}),
		alive: true,
	}
}

// SetContext installs ctx as the process-wide current context (foreign
// entry point set_context). Callers embedding accelir in a single
// compilation job typically call this once per job.
func SetContext(ctx *Context) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCurrent = ctx
}

// CurrentContext returns the process-wide current context, or nil if
// none has been set (foreign entry point current_context).
func CurrentContext() *Context {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalCurrent
}

// DestroyContext tears ctx down: it is no longer valid for allocation
// after this call, and if it is the current global context, the
// current context is cleared (foreign entry point destroy_context).
func DestroyContext(ctx *Context) {
	globalMu.Lock()
	if globalCurrent == ctx {
		globalCurrent = nil
	}
	globalMu.Unlock()

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.alive = false
	ctx.objects = nil
	ctx.roots = nil
}

func (ctx *Context) requireAlive() {
	if !ctx.alive {
		panic("accelctx: use of a destroyed context")
	}
}

// NextSeq hands out the next globally-unique node sequence number
// within this context; NodeRef uses it for the deterministic ordering
// supplement described in SPEC_FULL §5 ("NodeRef ordering").
func (ctx *Context) NextSeq() uint64 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.requireAlive()
	ctx.nextSeq++
	return ctx.nextSeq
}

// AppendObject registers a newly allocated shared object with the
// collector (foreign entry point append_object). Blocks and modules
// call this as they are constructed.
func (ctx *Context) AppendObject(obj Traceable) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.requireAlive()
	ctx.objects = append(ctx.objects, obj)
}

// SetRoot pins obj as a GC root: Collect will never report it (or
// anything reachable from it) as garbage.
func (ctx *Context) SetRoot(obj Traceable) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.requireAlive()
	ctx.roots[obj] = struct{}{}
}

// UnsetRoot releases a previously pinned root.
func (ctx *Context) UnsetRoot(obj Traceable) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.requireAlive()
	delete(ctx.roots, obj)
}

// CollectStats reports the outcome of a Collect pass. accelir's Go
// objects are reclaimed by the real Go garbage collector regardless;
// Collect is bookkeeping that mirrors what a native host's manual
// tracing collector would do, and is exercised by tests asserting
// reachability and cycle-tolerance (spec §5, §9 "cyclic ownership").
type CollectStats struct {
	Reachable int
	Garbage   int
	Cycles    int
}

// Collect performs a mark phase (flood fill from roots via Trace, spec
// §5 "mark-and-sweep sweep pass") followed by a sweep phase that drops
// unreached objects from the object list. Garbage cycles — objects
// unreachable from any root but referencing each other — are detected
// via Tarjan's algorithm so the Cycles count is accurate even though
// nothing outside of roots ever reaches them (spec §9 "cyclic
// ownership": the collector must tolerate cycles).
func (ctx *Context) Collect() CollectStats {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.requireAlive()

	reached := make(map[Traceable]struct{})
	var stack []Traceable
	for root := range ctx.roots {
		stack = append(stack, root)
	}
	for len(stack) > 0 {
		n := len(stack) - 1
		obj := stack[n]
		stack = stack[:n]
		if _, ok := reached[obj]; ok {
			continue
		}
		reached[obj] = struct{}{}
		stack = append(stack, obj.Trace()...)
	}

	var survivors []Traceable
	var garbage []Traceable
	for _, obj := range ctx.objects {
		if _, ok := reached[obj]; ok {
			survivors = append(survivors, obj)
		} else {
			garbage = append(garbage, obj)
		}
	}
	ctx.objects = survivors

	cycles := countCycles(garbage)

	return CollectStats{
		Reachable: len(survivors),
		Garbage:   len(garbage),
		Cycles:    cycles,
	}
}

// String renders a short diagnostic, in the style of the teacher's
// context/collector-adjacent debug helpers.
func (ctx *Context) String() string {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return fmt.Sprintf("accelctx.Context{objects=%d roots=%d alive=%v}", len(ctx.objects), len(ctx.roots), ctx.alive)
}
