package ir

import (
	"accelir/pkg/accelctx"
)

// ModuleKind discriminates Module's informational tag (spec §3
// "Module"). Collectors and dumpers treat all kinds uniformly (spec
// §4.7).
type ModuleKind uint8

const (
	ModuleBlock ModuleKind = iota
	ModuleFunction
	ModuleKernel
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleBlock:
		return "Block"
	case ModuleFunction:
		return "Function"
	case ModuleKernel:
		return "Kernel"
	default:
		return "Module(?)"
	}
}

// Module is {kind, entry} (spec §3). Shared ownership: shallow clone
// retains the same entry handle; deep copy is C9's ModuleCloner.
type Module struct {
	ctx   *accelctx.Context
	Kind  ModuleKind
	Entry *BasicBlock
}

// ModuleFromFragment wraps entry as a kind-Block module (spec §4.7
// "Module::from_fragment(entry)").
func ModuleFromFragment(ctx *accelctx.Context, entry *BasicBlock) *Module {
	m := &Module{ctx: ctx, Kind: ModuleBlock, Entry: entry}
	ctx.AppendObject(m)
	return m
}

// NewModule builds a module of any kind over entry — used by
// CallableModule/KernelModule constructors, and by tests that want a
// Function/Kernel-tagged module directly.
func NewModule(ctx *accelctx.Context, kind ModuleKind, entry *BasicBlock) *Module {
	m := &Module{ctx: ctx, Kind: kind, Entry: entry}
	ctx.AppendObject(m)
	return m
}

// ShallowClone copies the kind and retains the same entry handle (spec
// §3: "clone copies the kind and retains the same entry handle
// (shallow) — deep copy is obtained via C9").
func (m *Module) ShallowClone() *Module {
	return &Module{ctx: m.ctx, Kind: m.Kind, Entry: m.Entry}
}

// Trace reports the module's one owned shared reference: its entry
// block.
func (m *Module) Trace() []accelctx.Traceable {
	if m.Entry == nil {
		return nil
	}
	return []accelctx.Traceable{m.Entry}
}

// BindingKind discriminates Binding (spec §3 "KernelModule").
type BindingKind uint8

const (
	BindingBuffer BindingKind = iota
	BindingTexture
	BindingBindlessArray
	BindingAccel
)

func (k BindingKind) String() string {
	switch k {
	case BindingBuffer:
		return "Buffer"
	case BindingTexture:
		return "Texture"
	case BindingBindlessArray:
		return "BindlessArray"
	case BindingAccel:
		return "Accel"
	default:
		return "Binding(?)"
	}
}

// Binding describes a concrete external resource by opaque 64-bit
// handle, plus resource-specific sub-fields (spec §3: "buffer: offset
// u64, size; texture: level u32").
type Binding struct {
	Kind   BindingKind
	Handle uint64

	// Buffer
	Offset uint64
	Size   uint64

	// Texture
	Level uint32
}

// NewBufferBinding builds a Binding for a buffer resource.
func NewBufferBinding(handle, offset, size uint64) Binding {
	return Binding{Kind: BindingBuffer, Handle: handle, Offset: offset, Size: size}
}

// NewTextureBinding builds a Binding for a texture resource.
func NewTextureBinding(handle uint64, level uint32) Binding {
	return Binding{Kind: BindingTexture, Handle: handle, Level: level}
}

// NewBindlessArrayBinding builds a Binding for a bindless array.
func NewBindlessArrayBinding(handle uint64) Binding {
	return Binding{Kind: BindingBindlessArray, Handle: handle}
}

// NewAccelBinding builds a Binding for an acceleration structure.
func NewAccelBinding(handle uint64) Binding {
	return Binding{Kind: BindingAccel, Handle: handle}
}

// Capture binds a node — typically an Argument or resource placeholder
// — to a concrete external resource (spec §3 "KernelModule").
type Capture struct {
	Node    NodeRef
	Binding Binding
}

// CallableModule is {module, args} (spec §3). Each arg is an Argument
// node (spec §4.7).
type CallableModule struct {
	Module *Module
	Args   []NodeRef
}

// NewCallableModule wraps entry as a Function module with the given
// Argument-node formals.
func NewCallableModule(ctx *accelctx.Context, entry *BasicBlock, args []NodeRef) *CallableModule {
	owned := make([]NodeRef, len(args))
	copy(owned, args)
	return &CallableModule{
		Module: NewModule(ctx, ModuleFunction, entry),
		Args:   owned,
	}
}

// Trace reports the wrapped module as the callable's one owned shared
// reference.
func (c *CallableModule) Trace() []accelctx.Traceable {
	return []accelctx.Traceable{c.Module}
}

// KernelModule is {module, captures, args, shared} (spec §3).
type KernelModule struct {
	Module   *Module
	Captures []Capture
	Args     []NodeRef
	Shared   []NodeRef
}

// NewKernelModule wraps entry as a Kernel module with the given
// captures, Argument-node formals, and Shared-node declarations.
func NewKernelModule(ctx *accelctx.Context, entry *BasicBlock, captures []Capture, args, shared []NodeRef) *KernelModule {
	ownedCaptures := make([]Capture, len(captures))
	copy(ownedCaptures, captures)
	ownedArgs := make([]NodeRef, len(args))
	copy(ownedArgs, args)
	ownedShared := make([]NodeRef, len(shared))
	copy(ownedShared, shared)
	return &KernelModule{
		Module:   NewModule(ctx, ModuleKernel, entry),
		Captures: ownedCaptures,
		Args:     ownedArgs,
		Shared:   ownedShared,
	}
}

// Trace reports the wrapped module as the kernel's one owned shared
// reference.
func (k *KernelModule) Trace() []accelctx.Traceable {
	return []accelctx.Traceable{k.Module}
}
