package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// reader wraps an io.Reader with the big-endian primitives the format
// is built from. The first error sticks; every read after it returns
// zero values, so parse code can check once per section.
type reader struct {
	src io.Reader
	err error
}

func (r *reader) u1() uint8 {
	var buf [1]byte
	r.fill(buf[:])
	return buf[0]
}

func (r *reader) u2() uint16 {
	var buf [2]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) u4() uint32 {
	var buf [4]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	r.fill(buf)
	return buf
}

func (r *reader) fill(buf []byte) {
	if r.err != nil {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	_, r.err = io.ReadFull(r.src, buf)
}

// Parse reads one class file. It stops at the first structural
// problem; a class that parses is complete.
func Parse(src io.Reader) (*ClassFile, error) {
	r := &reader{src: src}

	if magic := r.u4(); r.err == nil && magic != Magic {
		return nil, fmt.Errorf("bad magic 0x%X", magic)
	}
	cf := &ClassFile{
		Minor: r.u2(),
		Major: r.u2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("read header: %w", r.err)
	}

	var err error
	if cf.Pool, err = readPool(r); err != nil {
		return nil, err
	}

	cf.Flags = AccessFlags(r.u2())
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	cf.Interfaces = make([]uint16, r.u2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.u2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
	}

	cf.Fields = make([]Field, r.u2())
	for i := range cf.Fields {
		if cf.Fields[i].Member, err = readMember(r, cf.Pool); err != nil {
			return nil, fmt.Errorf("read field %d: %w", i, err)
		}
	}
	cf.Methods = make([]Method, r.u2())
	for i := range cf.Methods {
		if cf.Methods[i].Member, err = readMember(r, cf.Pool); err != nil {
			return nil, fmt.Errorf("read method %d: %w", i, err)
		}
	}
	if cf.Attributes, err = readAttributes(r, cf.Pool); err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}
	return cf, nil
}

func readPool(r *reader) (ConstantPool, error) {
	count := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	if count == 0 {
		return nil, nil
	}
	pool := make(ConstantPool, count-1)
	for i := uint16(1); i < count; i++ {
		tag := ConstantTag(r.u1())
		entry := PoolEntry{Tag: tag}
		switch tag {
		case TagUtf8:
			entry.Text = decodeModifiedUTF8(r.bytes(int(r.u2())))
		case TagInteger:
			entry.Num = int64(int32(r.u4()))
		case TagFloat:
			entry.Real = float64(math.Float32frombits(r.u4()))
		case TagLong:
			entry.Num = int64(uint64(r.u4())<<32 | uint64(r.u4()))
		case TagDouble:
			entry.Real = math.Float64frombits(uint64(r.u4())<<32 | uint64(r.u4()))
		case TagClass, TagString:
			entry.Ref = r.u2()
		default:
			size, known := operandSize[tag]
			if !known {
				return nil, fmt.Errorf("constant pool entry %d: unknown tag %d", i, tag)
			}
			r.bytes(size)
		}
		if r.err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
		}
		pool[i-1] = entry
		// Longs and doubles burn a second slot.
		if tag == TagLong || tag == TagDouble {
			i++
		}
	}
	return pool, nil
}

func readMember(r *reader, pool ConstantPool) (Member, error) {
	m := Member{
		Flags:   AccessFlags(r.u2()),
		NameIdx: r.u2(),
		DescIdx: r.u2(),
	}
	attrs, err := readAttributes(r, pool)
	if err != nil {
		return Member{}, err
	}
	m.Attributes = attrs
	return m, nil
}

func readAttributes(r *reader, pool ConstantPool) ([]Attribute, error) {
	count := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		nameIdx := r.u2()
		attrs[i] = Attribute{
			Name: pool.Utf8At(nameIdx),
			Data: r.bytes(int(r.u4())),
		}
		if r.err != nil {
			return nil, r.err
		}
	}
	return attrs, nil
}

// decodeModifiedUTF8 converts the JVM's modified UTF-8 into a Go
// string: U+0000 arrives as two bytes, and supplementary characters as
// a surrogate pair of two three-byte sequences.
func decodeModifiedUTF8(data []byte) string {
	runes := make([]rune, 0, len(data))
	for i := 0; i < len(data); {
		switch b := data[i]; {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(data):
			runes = append(runes, rune(b&0x1F)<<6|rune(data[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(data):
			hi := rune(b&0x0F)<<12 | rune(data[i+1]&0x3F)<<6 | rune(data[i+2]&0x3F)
			if lo, ok := lowSurrogate(data[i+3:]); ok && hi >= 0xD800 && hi <= 0xDBFF {
				runes = append(runes, 0x10000+(hi-0xD800)<<10+(lo-0xDC00))
				i += 6
				continue
			}
			runes = append(runes, hi)
			i += 3
		default:
			// Truncated sequence; keep the byte rather than drop it.
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}

func lowSurrogate(data []byte) (rune, bool) {
	if len(data) < 3 || data[0] != 0xED {
		return 0, false
	}
	lo := rune(data[0]&0x0F)<<12 | rune(data[1]&0x3F)<<6 | rune(data[2]&0x3F)
	return lo, lo >= 0xDC00 && lo <= 0xDFFF
}
