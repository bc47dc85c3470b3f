package runtime

// stringHeaderBytes approximates the fixed overhead of a string
// object's header + length field, for total_bytes_allocated bookkeeping.
// Matches a typical 64-bit ABI: bool+pad, pointer, int64, int tag,
// rounded to 8, plus the int64 length field.
const stringHeaderBytes = 40

// StringObject is a Navi string: immutable, byte-level pass-through
// (no UTF-8 validation), per spec.md §3's "String object" description.
type StringObject struct {
	Header
	Length int
	Bytes  []byte
}

func (s *StringObject) header() *Header { return &s.Header }
func (s *StringObject) release()        { s.Bytes = nil }

// NewString allocates a string object copying data, registering it on
// gc's all-objects list. The runtime never retains a reference to
// data's backing array - the bytes are copied so later mutation of the
// caller's buffer (e.g. a reused global constant) cannot corrupt a
// live string.
func (gc *GC) NewString(data []byte) *StringObject {
	size := int64(stringHeaderBytes + len(data))
	gc.beforeAlloc(size)

	buf := make([]byte, len(data))
	copy(buf, data)

	s := &StringObject{Length: len(data), Bytes: buf}
	s.Size = size
	s.Tag = TagString
	gc.push(s)
	return s
}
