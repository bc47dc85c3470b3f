// Command navirt builds Navi's runtime shared object: the C-ABI entry
// points spec.md §6 requires, exported via cgo so a linked native
// binary (produced from IR this compiler emits, assembled by whatever
// backend the `-backend` flag names) can call into the Go-implemented
// garbage collector and heap object model in runtime/abi.
//
// Built with `go build -buildmode=c-archive` or `-buildmode=c-shared`;
// this file carries no logic of its own beyond C-type marshalling -
// see runtime/abi for the actual behavior, which is unit-tested as
// ordinary Go.
package main

/*
#include <stdbool.h>
*/
import "C"

import (
	"unsafe"

	"github.com/skx/navi/runtime/abi"
)

//export rt_init
func rt_init() unsafe.Pointer {
	return toPtr(abi.Init())
}

//export rt_collect
func rt_collect(gc unsafe.Pointer) {
	abi.Collect(fromPtr(gc))
}

//export rt_add_root
func rt_add_root(gc, obj unsafe.Pointer) {
	abi.AddRoot(fromPtr(gc), fromPtr(obj))
}

//export rt_remove_root
func rt_remove_root(gc, obj unsafe.Pointer) {
	abi.RemoveRoot(fromPtr(gc), fromPtr(obj))
}

//export rt_alloc_int_array
func rt_alloc_int_array(gc unsafe.Pointer, capacity C.longlong) unsafe.Pointer {
	return toPtr(abi.AllocIntArray(fromPtr(gc), int64(capacity)))
}

//export rt_alloc_float_array
func rt_alloc_float_array(gc unsafe.Pointer, capacity C.longlong) unsafe.Pointer {
	return toPtr(abi.AllocFloatArray(fromPtr(gc), int64(capacity)))
}

//export rt_alloc_bool_array
func rt_alloc_bool_array(gc unsafe.Pointer, capacity C.longlong) unsafe.Pointer {
	return toPtr(abi.AllocBoolArray(fromPtr(gc), int64(capacity)))
}

//export rt_alloc_string_array
func rt_alloc_string_array(gc unsafe.Pointer, capacity C.longlong) unsafe.Pointer {
	return toPtr(abi.AllocStringArray(fromPtr(gc), int64(capacity)))
}

//export rt_alloc_string
func rt_alloc_string(bytes *C.char, size C.longlong) unsafe.Pointer {
	buf := C.GoBytes(unsafe.Pointer(bytes), C.int(size))
	return toPtr(abi.AllocString(buf))
}

//export rt_print_string
func rt_print_string(s unsafe.Pointer) {
	abi.PrintString(fromPtr(s))
}

//export rt_array_get_int
func rt_array_get_int(arr unsafe.Pointer, index C.longlong) C.longlong {
	return C.longlong(abi.GetInt(fromPtr(arr), int64(index)))
}

//export rt_array_set_int
func rt_array_set_int(arr unsafe.Pointer, index C.longlong, v C.longlong) {
	abi.SetInt(fromPtr(arr), int64(index), int64(v))
}

//export rt_array_len_int
func rt_array_len_int(arr unsafe.Pointer) C.longlong {
	return C.longlong(abi.LenInt(fromPtr(arr)))
}

//export rt_array_get_float
func rt_array_get_float(arr unsafe.Pointer, index C.longlong) C.double {
	return C.double(abi.GetFloat(fromPtr(arr), int64(index)))
}

//export rt_array_set_float
func rt_array_set_float(arr unsafe.Pointer, index C.longlong, v C.double) {
	abi.SetFloat(fromPtr(arr), int64(index), float64(v))
}

//export rt_array_len_float
func rt_array_len_float(arr unsafe.Pointer) C.longlong {
	return C.longlong(abi.LenFloat(fromPtr(arr)))
}

//export rt_array_get_bool
func rt_array_get_bool(arr unsafe.Pointer, index C.longlong) C.bool {
	return C.bool(abi.GetBool(fromPtr(arr), int64(index)))
}

//export rt_array_set_bool
func rt_array_set_bool(arr unsafe.Pointer, index C.longlong, v C.bool) {
	abi.SetBool(fromPtr(arr), int64(index), bool(v))
}

//export rt_array_len_bool
func rt_array_len_bool(arr unsafe.Pointer) C.longlong {
	return C.longlong(abi.LenBool(fromPtr(arr)))
}

//export rt_array_get_string
func rt_array_get_string(arr unsafe.Pointer, index C.longlong) unsafe.Pointer {
	return toPtr(abi.GetString(fromPtr(arr), int64(index)))
}

//export rt_array_set_string
func rt_array_set_string(arr unsafe.Pointer, index C.longlong, v unsafe.Pointer) {
	abi.SetString(fromPtr(arr), int64(index), fromPtr(v))
}

//export rt_array_len_string
func rt_array_len_string(arr unsafe.Pointer) C.longlong {
	return C.longlong(abi.LenString(fromPtr(arr)))
}

// toPtr/fromPtr convert between abi's uintptr-valued handles and the
// unsafe.Pointer shape the C ABI in spec.md §6 describes as `opaque*`.
// The handle itself never dereferences as a real address - only Go,
// via runtime/cgo.Handle, ever resolves it to an object.
func toPtr(h uintptr) unsafe.Pointer { return unsafe.Pointer(h) } //nolint:govet
func fromPtr(p unsafe.Pointer) uintptr {
	return uintptr(p)
}

func main() {}
