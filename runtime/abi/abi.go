// Package abi is the Go side of Navi's C-ABI runtime shim (spec.md
// §6): the exported entry points generated code calls to allocate,
// read, and write heap objects, and to manage GC roots.
//
// Heap objects are never handed across the Go/C boundary as raw Go
// pointers - cgo's pointer-passing rules forbid C code from retaining
// one, and a native backend's generated code does exactly that (a
// stack slot holding a string pointer for the lifetime of a function).
// Instead every object (and the GC instance itself) is wrapped in a
// runtime/cgo.Handle: a small, C-safe, uintptr-sized value that can be
// stored in LLVM IR's opaque pointer slots and resolved back to the Go
// object on each call. cmd/navirt is the thin package-main layer that
// actually exports these as C symbols via cgo's `//export` comments;
// this package carries every bit of behavior so it can be unit-tested
// as ordinary Go.
package abi

import (
	"fmt"
	"os"
	"runtime/cgo"
	"sync"

	navirt "github.com/skx/navi/runtime"
)

var (
	processGC     *navirt.GC
	processHandle cgo.Handle
	initOnce      sync.Once
)

// Init implements rt_init: lazily creates the process-wide GC and
// returns a stable handle to it. Per spec.md §5, the runtime has one
// process-wide GC instance; rt_init's handle return value may be
// ignored by every other entry point (they also accept 0 to mean "the
// process-wide instance").
func Init() uintptr {
	initOnce.Do(func() {
		processGC = navirt.New()
		processHandle = cgo.NewHandle(processGC)
	})
	return uintptr(processHandle)
}

func gcFromHandle(h uintptr) *navirt.GC {
	if h == 0 {
		return processGC
	}
	v, ok := cgo.Handle(h).Value().(*navirt.GC)
	if !ok {
		panic("abi: handle does not refer to a GC instance")
	}
	return v
}

func objectFromHandle(h uintptr) navirt.Object {
	if h == 0 {
		return nil
	}
	obj, ok := cgo.Handle(h).Value().(navirt.Object)
	if !ok {
		panic("abi: handle does not refer to a heap object")
	}
	return obj
}

func newHandleFor(obj navirt.Object) uintptr {
	return uintptr(cgo.NewHandle(obj))
}

// Collect implements rt_collect.
func Collect(handle uintptr) {
	gcFromHandle(handle).Collect()
}

// AddRoot implements rt_add_root.
func AddRoot(handle, obj uintptr) {
	if obj == 0 {
		return
	}
	gcFromHandle(handle).AddRoot(objectFromHandle(obj))
}

// RemoveRoot implements rt_remove_root.
func RemoveRoot(handle, obj uintptr) {
	if obj == 0 {
		return
	}
	gcFromHandle(handle).RemoveRoot(objectFromHandle(obj))
}

// AllocIntArray implements rt_alloc_int_array.
func AllocIntArray(handle uintptr, capacity int64) uintptr {
	return newHandleFor(gcFromHandle(handle).NewIntArray(int(capacity)))
}

// AllocFloatArray implements rt_alloc_float_array.
func AllocFloatArray(handle uintptr, capacity int64) uintptr {
	return newHandleFor(gcFromHandle(handle).NewFloatArray(int(capacity)))
}

// AllocBoolArray implements rt_alloc_bool_array.
func AllocBoolArray(handle uintptr, capacity int64) uintptr {
	return newHandleFor(gcFromHandle(handle).NewBoolArray(int(capacity)))
}

// AllocStringArray implements rt_alloc_string_array.
func AllocStringArray(handle uintptr, capacity int64) uintptr {
	return newHandleFor(gcFromHandle(handle).NewStringArray(int(capacity)))
}

// AllocString implements rt_alloc_string. It always allocates against
// the process-wide GC: spec.md §6 gives rt_alloc_string no GC-handle
// parameter at all, unlike the array allocators.
func AllocString(bytes []byte) uintptr {
	return newHandleFor(processGC.NewString(bytes))
}

// PrintString implements the print-lowering support function
// rt_print_string (see DESIGN.md, ir (lowering) section, on why this
// exists beyond spec.md §6's illustrative table): writes a string
// object's raw bytes to stdout with no added terminator.
func PrintString(handle uintptr) {
	s, ok := objectFromHandle(handle).(*navirt.StringObject)
	if !ok {
		panic("rt_print_string: handle does not refer to a string")
	}
	os.Stdout.Write(s.Bytes)
}

func mustIntArray(h uintptr) *navirt.IntArrayObject {
	a, ok := objectFromHandle(h).(*navirt.IntArrayObject)
	if !ok {
		panic(fmt.Sprintf("abi: handle does not refer to an int[] (%T)", objectFromHandle(h)))
	}
	return a
}

func mustFloatArray(h uintptr) *navirt.FloatArrayObject {
	a, ok := objectFromHandle(h).(*navirt.FloatArrayObject)
	if !ok {
		panic(fmt.Sprintf("abi: handle does not refer to a float[] (%T)", objectFromHandle(h)))
	}
	return a
}

func mustBoolArray(h uintptr) *navirt.BoolArrayObject {
	a, ok := objectFromHandle(h).(*navirt.BoolArrayObject)
	if !ok {
		panic(fmt.Sprintf("abi: handle does not refer to a bool[] (%T)", objectFromHandle(h)))
	}
	return a
}

func mustStringArray(h uintptr) *navirt.StringArrayObject {
	a, ok := objectFromHandle(h).(*navirt.StringArrayObject)
	if !ok {
		panic(fmt.Sprintf("abi: handle does not refer to a string[] (%T)", objectFromHandle(h)))
	}
	return a
}

// GetInt / SetInt / LenInt implement rt_array_{get,set,len}_int.
func GetInt(arr uintptr, index int64) int64     { return mustIntArray(arr).Get(int(index)) }
func SetInt(arr uintptr, index int64, v int64)  { mustIntArray(arr).Set(int(index), v) }
func LenInt(arr uintptr) int64                  { return int64(mustIntArray(arr).Length) }

// GetFloat / SetFloat / LenFloat implement rt_array_{get,set,len}_float.
func GetFloat(arr uintptr, index int64) float64    { return mustFloatArray(arr).Get(int(index)) }
func SetFloat(arr uintptr, index int64, v float64) { mustFloatArray(arr).Set(int(index), v) }
func LenFloat(arr uintptr) int64                   { return int64(mustFloatArray(arr).Length) }

// GetBool / SetBool / LenBool implement rt_array_{get,set,len}_bool.
func GetBool(arr uintptr, index int64) bool    { return mustBoolArray(arr).Get(int(index)) }
func SetBool(arr uintptr, index int64, v bool) { mustBoolArray(arr).Set(int(index), v) }
func LenBool(arr uintptr) int64                { return int64(mustBoolArray(arr).Length) }

// GetString / SetString / LenString implement rt_array_{get,set,len}_string.
// Elements are themselves handles (0 for a nil slot).
func GetString(arr uintptr, index int64) uintptr {
	s := mustStringArray(arr).Get(int(index))
	if s == nil {
		return 0
	}
	return newHandleFor(s)
}

func SetString(arr uintptr, index int64, v uintptr) {
	mustStringArray(arr).Set(int(index), stringOrNil(v))
}

func LenString(arr uintptr) int64 { return int64(mustStringArray(arr).Length) }

func stringOrNil(h uintptr) *navirt.StringObject {
	if h == 0 {
		return nil
	}
	s, ok := objectFromHandle(h).(*navirt.StringObject)
	if !ok {
		panic("abi: handle does not refer to a string")
	}
	return s
}
