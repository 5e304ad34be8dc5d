package classfile

import "strings"

// FieldType is one erased type out of a descriptor. Exactly one of
// Primitive and Internal is set for the element type; Dims counts the
// array dimensions wrapped around it.
type FieldType struct {
	Primitive string // "int", "boolean", ...
	Internal  string // internal class name, java/lang/String
	Dims      int
}

// MethodDescriptor is the erased shape of a method. A nil Ret is void.
type MethodDescriptor struct {
	Params []FieldType
	Ret    *FieldType
}

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// ParseFieldDescriptor decodes a single field descriptor such as
// [Ljava/lang/String; into its type. Nil on malformed input.
func ParseFieldDescriptor(desc string) *FieldType {
	ft, rest := takeFieldType(desc)
	if ft == nil || rest != "" {
		return nil
	}
	return ft
}

// ParseMethodDescriptor decodes a method descriptor such as
// (I[Ljava/lang/String;)V. Nil on malformed input.
func ParseMethodDescriptor(desc string) *MethodDescriptor {
	rest, ok := strings.CutPrefix(desc, "(")
	if !ok {
		return nil
	}
	md := &MethodDescriptor{}
	for rest != "" && rest[0] != ')' {
		ft, tail := takeFieldType(rest)
		if ft == nil {
			return nil
		}
		md.Params = append(md.Params, *ft)
		rest = tail
	}
	rest, ok = strings.CutPrefix(rest, ")")
	if !ok {
		return nil
	}
	if rest == "V" {
		return md
	}
	md.Ret, rest = takeFieldType(rest)
	if md.Ret == nil || rest != "" {
		return nil
	}
	return md
}

// String renders the type as Java source text, int[] or java.lang.String.
func (ft *FieldType) String() string {
	name := ft.Primitive
	if name == "" {
		name = InternalToSourceName(ft.Internal)
	}
	return name + strings.Repeat("[]", ft.Dims)
}

// String renders the descriptor as a parameter list followed by the
// return type, (int, int) int.
func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := range md.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(md.Params[i].String())
	}
	sb.WriteString(") ")
	if md.Ret == nil {
		sb.WriteString("void")
	} else {
		sb.WriteString(md.Ret.String())
	}
	return sb.String()
}

// takeFieldType consumes one field type from the front of a descriptor
// and returns it with the remainder.
func takeFieldType(desc string) (*FieldType, string) {
	var ft FieldType
	for len(desc) > 0 && desc[0] == '[' {
		ft.Dims++
		desc = desc[1:]
	}
	if desc == "" {
		return nil, ""
	}
	if name, ok := primitiveNames[desc[0]]; ok {
		ft.Primitive = name
		return &ft, desc[1:]
	}
	if desc[0] != 'L' {
		return nil, ""
	}
	end := strings.IndexByte(desc, ';')
	if end < 0 {
		return nil, ""
	}
	ft.Internal = desc[1:end]
	return &ft, desc[end+1:]
}

// InternalToSourceName rewrites an internal name like java/util/List
// into its dotted source form.
func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
