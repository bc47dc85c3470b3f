// Package runtime implements Navi's heap: the object header shared by
// every allocation, the string and four typed-array object kinds, and
// the mark-and-sweep collector that owns them. It is the Go-side
// counterpart of original_source/runtime (object.rs, garbage_collector.rs),
// reshaped into the idioms this repository's other packages use.
package runtime

// ObjectType tags a heap object's concrete kind, per spec.md §3's
// header layout. The mark phase dispatches on it to decide whether an
// object carries outgoing references to trace.
type ObjectType int

// The five heap object kinds the collector knows about.
const (
	TagString ObjectType = iota
	TagIntArray
	TagFloatArray
	TagBoolArray
	TagStringArray
)

func (t ObjectType) String() string {
	switch t {
	case TagString:
		return "string"
	case TagIntArray:
		return "int[]"
	case TagFloatArray:
		return "float[]"
	case TagBoolArray:
		return "bool[]"
	case TagStringArray:
		return "string[]"
	default:
		return "unknown"
	}
}

// Header is the fixed prefix every heap object carries, per spec.md
// §3: "{ mark, next, object_size_in_bytes, object_type }". Every
// concrete object type embeds Header as its first field, matching the
// spec's "all heap pointers... point at the header itself" invariant:
// in this Go implementation, &obj.Header == unsafe.Pointer(obj) always
// holds, since Header is the first field.
//
// Next is typed as the Object interface rather than a raw pointer: Go
// gives no portable way to recover "the struct that embeds this
// Header" from the Header's own address the way C/LLVM IR pointer
// arithmetic would, so the all-objects list is threaded through
// interface values instead of raw header pointers. The observable
// shape - a singly-linked list anchored at the GC and walked during
// sweep - is identical.
type Header struct {
	Mark bool
	Next Object
	Size int64
	Tag  ObjectType

	// gc is the collector this object was allocated against. The four
	// array kinds use it to re-account total_bytes_allocated when their
	// element buffer reallocates on growth, the same way a fresh
	// allocation does via beforeAlloc.
	gc *GC
}

// Object is satisfied by every heap object kind: StringObject and the
// four array objects.
type Object interface {
	header() *Header
	// release severs the object's out-of-band buffers (element data or
	// string bytes) before the object itself is dropped from the
	// all-objects list, mirroring spec.md §4.6's "free its element
	// buffer... before freeing the header block" ordering. There is no
	// explicit header free in this Go implementation - once the sweep
	// unlinks an object and calls release, nothing in the runtime
	// retains a reference to it and Go's own allocator reclaims the
	// memory on its own schedule. The mark-sweep algorithm's observable
	// behavior (reachability, total_bytes_allocated bookkeeping, buffer-
	// before-header ordering) is preserved exactly; only the mechanism
	// for returning bytes to the OS differs from a manual malloc/free
	// implementation.
	release()
}
