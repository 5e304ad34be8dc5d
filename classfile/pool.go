package classfile

// ConstantTag identifies a constant pool entry kind (JVMS table 4.4-B).
type ConstantTag uint8

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

// operandSize maps each fixed-size tag to its payload width. Utf8 is
// variable and handled separately; Long and Double additionally occupy
// a second pool slot.
var operandSize = map[ConstantTag]int{
	TagInteger:            4,
	TagFloat:              4,
	TagLong:               8,
	TagDouble:             8,
	TagClass:              2,
	TagString:             2,
	TagFieldref:           4,
	TagMethodref:          4,
	TagInterfaceMethodref: 4,
	TagNameAndType:        4,
	TagMethodHandle:       3,
	TagMethodType:         2,
	TagDynamic:            4,
	TagInvokeDynamic:      4,
	TagModule:             2,
	TagPackage:            2,
}

// PoolEntry is one constant pool slot. A completion engine only ever
// reads names, strings, and primitive constants back out of the pool,
// so just those payloads are materialized; reference-style entries
// (Methodref, NameAndType, invokedynamic machinery) keep their tag and
// nothing else.
type PoolEntry struct {
	Tag ConstantTag

	Text string  // TagUtf8
	Num  int64   // TagInteger, TagLong
	Real float64 // TagFloat, TagDouble
	Ref  uint16  // TagClass name index, TagString text index
}

// Utf8Entry builds a pool slot holding decoded text.
func Utf8Entry(s string) PoolEntry { return PoolEntry{Tag: TagUtf8, Text: s} }

// IntEntry builds an integer constant slot.
func IntEntry(v int32) PoolEntry { return PoolEntry{Tag: TagInteger, Num: int64(v)} }

// LongEntry builds a long constant slot. The caller is responsible for
// the empty follow-up slot the format requires.
func LongEntry(v int64) PoolEntry { return PoolEntry{Tag: TagLong, Num: v} }

// FloatEntry builds a float constant slot.
func FloatEntry(v float32) PoolEntry { return PoolEntry{Tag: TagFloat, Real: float64(v)} }

// DoubleEntry builds a double constant slot.
func DoubleEntry(v float64) PoolEntry { return PoolEntry{Tag: TagDouble, Real: v} }

// ClassEntry builds a class reference pointing at a Utf8 slot with the
// internal class name.
func ClassEntry(nameIndex uint16) PoolEntry { return PoolEntry{Tag: TagClass, Ref: nameIndex} }

// StringEntry builds a string constant pointing at a Utf8 slot.
func StringEntry(textIndex uint16) PoolEntry { return PoolEntry{Tag: TagString, Ref: textIndex} }

// ConstantPool is the pool with one-based indexing as the format uses
// it. Index 0 and out-of-range indexes resolve to zero values, never a
// panic, because damaged jars are routine input.
type ConstantPool []PoolEntry

func (p ConstantPool) at(index uint16, tag ConstantTag) (PoolEntry, bool) {
	if index == 0 || int(index) > len(p) {
		return PoolEntry{}, false
	}
	e := p[index-1]
	return e, e.Tag == tag
}

// Utf8At returns the text of a Utf8 slot, or "".
func (p ConstantPool) Utf8At(index uint16) string {
	e, ok := p.at(index, TagUtf8)
	if !ok {
		return ""
	}
	return e.Text
}

// ClassNameAt resolves a Class slot to its internal name, or "".
func (p ConstantPool) ClassNameAt(index uint16) string {
	e, ok := p.at(index, TagClass)
	if !ok {
		return ""
	}
	return p.Utf8At(e.Ref)
}

// StringAt resolves a String slot to its text, or "".
func (p ConstantPool) StringAt(index uint16) string {
	e, ok := p.at(index, TagString)
	if !ok {
		return ""
	}
	return p.Utf8At(e.Ref)
}

// IntAt returns an integer constant.
func (p ConstantPool) IntAt(index uint16) (int32, bool) {
	e, ok := p.at(index, TagInteger)
	return int32(e.Num), ok
}

// LongAt returns a long constant.
func (p ConstantPool) LongAt(index uint16) (int64, bool) {
	e, ok := p.at(index, TagLong)
	return e.Num, ok
}

// FloatAt returns a float constant.
func (p ConstantPool) FloatAt(index uint16) (float32, bool) {
	e, ok := p.at(index, TagFloat)
	return float32(e.Real), ok
}

// DoubleAt returns a double constant.
func (p ConstantPool) DoubleAt(index uint16) (float64, bool) {
	e, ok := p.at(index, TagDouble)
	return e.Real, ok
}
