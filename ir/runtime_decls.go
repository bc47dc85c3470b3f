package ir

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/skx/navi/ast"
)

// ptrType is how every Navi string/array value is represented in the
// generated IR: an opaque pointer to the runtime object header (never
// past it - spec.md §3).
var ptrType = types.NewPointer(types.I8)

// nativeInt is int lowered to a target-native signed integer. This
// repository targets 64-bit hosts only (SPEC_FULL.md, Supplemented
// Features #1).
var nativeInt = types.I64

// sizeType mirrors nativeInt for array length/capacity/index parameters
// in the runtime ABI (SPEC_FULL.md, Supplemented Features #2).
var sizeType = types.I64

// runtimeDecls holds the handles for every external function the
// lowered module calls: the runtime C-ABI shim (spec.md §6) plus the
// host C library's printf.
type runtimeDecls struct {
	printf *ir.Func

	rtInit        *ir.Func
	rtCollect     *ir.Func
	rtAddRoot     *ir.Func
	rtRemoveRoot  *ir.Func
	rtAllocString *ir.Func
	rtPrintString *ir.Func

	allocArray map[ElemKind]*ir.Func
	arrayGet   map[ElemKind]*ir.Func
	arraySet   map[ElemKind]*ir.Func
	arrayLen   map[ElemKind]*ir.Func
}

// ElemKind is the element-type tag array ABI entry points are
// parameterized over: int, float, bool, string.
type ElemKind int

// The four array element kinds, matching spec.md §6's `<T>` range.
const (
	ElemInt ElemKind = iota
	ElemFloat
	ElemBool
	ElemString
)

func (k ElemKind) suffix() string {
	switch k {
	case ElemInt:
		return "int"
	case ElemFloat:
		return "float"
	case ElemBool:
		return "bool"
	case ElemString:
		return "string"
	}
	return "unknown"
}

// llvmType is the LLVM type an array element kind lowers to.
func (k ElemKind) llvmType() types.Type {
	switch k {
	case ElemInt:
		return nativeInt
	case ElemFloat:
		return types.Double
	case ElemBool:
		return types.I1
	case ElemString:
		return ptrType
	}
	return ptrType
}

// declareRuntime declares every external entry point a lowered Navi
// module may call, against mod. Grounded on
// original_source/compiler/src/codegen/mod.rs's declare_runtime_*_functions,
// renamed to the rt_* names spec.md §6 specifies.
func declareRuntime(mod *ir.Module) *runtimeDecls {
	d := &runtimeDecls{
		allocArray: make(map[ElemKind]*ir.Func),
		arrayGet:   make(map[ElemKind]*ir.Func),
		arraySet:   make(map[ElemKind]*ir.Func),
		arrayLen:   make(map[ElemKind]*ir.Func),
	}

	d.printf = mod.NewFunc("printf", types.I32, ir.NewParam("fmt", ptrType))
	d.printf.Sig.Variadic = true

	d.rtInit = mod.NewFunc("rt_init", ptrType)
	d.rtCollect = mod.NewFunc("rt_collect", types.Void, ir.NewParam("gc", ptrType))
	d.rtAddRoot = mod.NewFunc("rt_add_root", types.Void,
		ir.NewParam("gc", ptrType), ir.NewParam("obj", ptrType))
	d.rtRemoveRoot = mod.NewFunc("rt_remove_root", types.Void,
		ir.NewParam("gc", ptrType), ir.NewParam("obj", ptrType))
	d.rtAllocString = mod.NewFunc("rt_alloc_string", ptrType,
		ir.NewParam("bytes", ptrType), ir.NewParam("size", sizeType))

	// rt_print_string is not part of the illustrative ABI table in
	// spec.md §6 (that table says "names are illustrative"); it exists
	// because Navi strings are not NUL-terminated (spec.md §3), so a
	// bare `printf("%s", ...)` over their raw bytes would be unsafe.
	// The runtime owns the unsafe byte-layout knowledge and exposes a
	// safe print primitive instead of leaking the struct layout into
	// generated code.
	d.rtPrintString = mod.NewFunc("rt_print_string", types.Void, ir.NewParam("s", ptrType))

	for _, k := range []ElemKind{ElemInt, ElemFloat, ElemBool, ElemString} {
		suffix := k.suffix()
		d.allocArray[k] = mod.NewFunc("rt_alloc_"+suffix+"_array", ptrType,
			ir.NewParam("gc", ptrType), ir.NewParam("capacity", sizeType))
		d.arrayGet[k] = mod.NewFunc("rt_array_get_"+suffix, k.llvmType(),
			ir.NewParam("arr", ptrType), ir.NewParam("index", sizeType))
		d.arraySet[k] = mod.NewFunc("rt_array_set_"+suffix, types.Void,
			ir.NewParam("arr", ptrType), ir.NewParam("index", sizeType), ir.NewParam("value", k.llvmType()))
		d.arrayLen[k] = mod.NewFunc("rt_array_len_"+suffix, sizeType, ir.NewParam("arr", ptrType))
	}

	return d
}

// elemKindOf maps a Navi array element type to the ElemKind the ABI is
// parameterized over.
func elemKindOf(elem ast.Type) ElemKind {
	switch elem {
	case ast.Int:
		return ElemInt
	case ast.Float:
		return ElemFloat
	case ast.Bool:
		return ElemBool
	case ast.String:
		return ElemString
	}
	return ElemInt
}

// navLLVMType is the LLVM type a scalar (non-array) Navi type lowers to.
func navLLVMType(t ast.Type) types.Type {
	switch t {
	case ast.Int:
		return nativeInt
	case ast.Float:
		return types.Double
	case ast.Bool:
		return types.I1
	case ast.String:
		return ptrType
	default:
		// Arrays of every element kind lower to the same opaque
		// pointer; the element type only matters when choosing which
		// rt_array_* entry point to call.
		return ptrType
	}
}
