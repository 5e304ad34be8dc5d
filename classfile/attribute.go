package classfile

import "encoding/binary"

// Attribute is one attribute with its name resolved and its payload
// kept raw. The As accessors decode on demand, so attributes nothing
// asks about cost a name lookup and a byte slice. Unknown attributes
// pass through untouched.
type Attribute struct {
	Name string
	Data []byte
}

func attributeNamed(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// ConstantValueIndex returns the pool index a ConstantValue attribute
// points at.
func (a *Attribute) ConstantValueIndex() (uint16, bool) {
	if a == nil || len(a.Data) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(a.Data), true
}

// SignatureIndex returns the Utf8 pool index of a Signature attribute.
func (a *Attribute) SignatureIndex() (uint16, bool) {
	if a == nil || len(a.Data) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(a.Data), true
}

// InnerClass is one row of an InnerClasses attribute. The flags here,
// not the class-level ones, carry a nested class's static modifier.
type InnerClass struct {
	InnerInfo uint16 // Class pool index of the nested class
	OuterInfo uint16 // Class pool index of the enclosing class, 0 if local
	InnerName uint16 // Utf8 pool index of the simple name, 0 if anonymous
	Flags     AccessFlags
}

// InnerClasses decodes an InnerClasses attribute. A truncated payload
// yields nil.
func (a *Attribute) InnerClasses() []InnerClass {
	if a == nil || len(a.Data) < 2 {
		return nil
	}
	count := int(binary.BigEndian.Uint16(a.Data))
	if len(a.Data) < 2+count*8 {
		return nil
	}
	classes := make([]InnerClass, count)
	for i := range classes {
		row := a.Data[2+i*8:]
		classes[i] = InnerClass{
			InnerInfo: binary.BigEndian.Uint16(row),
			OuterInfo: binary.BigEndian.Uint16(row[2:]),
			InnerName: binary.BigEndian.Uint16(row[4:]),
			Flags:     AccessFlags(binary.BigEndian.Uint16(row[6:])),
		}
	}
	return classes
}

// MethodParam is one entry of a MethodParameters attribute.
type MethodParam struct {
	NameIdx uint16
	Flags   AccessFlags
}

// MethodParameters decodes a MethodParameters attribute, which is
// present only when sources were compiled with -parameters.
func (a *Attribute) MethodParameters() []MethodParam {
	if a == nil || len(a.Data) < 1 {
		return nil
	}
	count := int(a.Data[0])
	if len(a.Data) < 1+count*4 {
		return nil
	}
	params := make([]MethodParam, count)
	for i := range params {
		row := a.Data[1+i*4:]
		params[i] = MethodParam{
			NameIdx: binary.BigEndian.Uint16(row),
			Flags:   AccessFlags(binary.BigEndian.Uint16(row[2:])),
		}
	}
	return params
}

// RecordComponent is one component of a Record attribute, with its own
// nested attributes (a generic component carries a Signature there).
type RecordComponent struct {
	NameIdx    uint16
	DescIdx    uint16
	Attributes []Attribute
}

// RecordComponents decodes a Record attribute. The pool is needed to
// resolve the nested attribute names.
func (a *Attribute) RecordComponents(p ConstantPool) []RecordComponent {
	if a == nil || len(a.Data) < 2 {
		return nil
	}
	count := int(binary.BigEndian.Uint16(a.Data))
	components := make([]RecordComponent, 0, count)
	data := a.Data[2:]
	for i := 0; i < count; i++ {
		if len(data) < 6 {
			return nil
		}
		comp := RecordComponent{
			NameIdx: binary.BigEndian.Uint16(data),
			DescIdx: binary.BigEndian.Uint16(data[2:]),
		}
		nested := int(binary.BigEndian.Uint16(data[4:]))
		data = data[6:]
		for j := 0; j < nested; j++ {
			if len(data) < 6 {
				return nil
			}
			name := p.Utf8At(binary.BigEndian.Uint16(data))
			size := int(binary.BigEndian.Uint32(data[2:]))
			data = data[6:]
			if len(data) < size {
				return nil
			}
			comp.Attributes = append(comp.Attributes, Attribute{Name: name, Data: data[:size]})
			data = data[size:]
		}
		components = append(components, comp)
	}
	return components
}
