package java

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dhamidi/jig/classfile"
)

// ClassModelFromFile reads one compiled class into the model the type
// store serves.
func ClassModelFromFile(path string) (*ClassModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ClassModelFromReader(f)
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf), nil
}

// ClassModelFromClassFile converts parsed bytecode. Generic signatures
// win over erased descriptors when present, synthetic and bridge
// members are dropped, and a varargs method gets its final parameter
// unwrapped from the array layer the compiler added.
func ClassModelFromClassFile(cf *classfile.ClassFile) *ClassModel {
	binary := classfile.InternalToSourceName(cf.ClassName())
	pkg, rest := splitBinaryName(binary)

	model := &ClassModel{
		Package:    pkg,
		Name:       strings.ReplaceAll(rest, "$", "."),
		BinaryName: binary,
		Kind:       classKindOf(cf),
		Visibility: visibilityFromFlags(cf.Flags),
		IsStatic:   nestedStatic(cf),
		IsAbstract: cf.Flags.IsAbstract(),
		IsFinal:    cf.Flags.IsFinal(),
	}

	if sig := classSignature(cf); sig != "" {
		if cs := classfile.ParseClassSignature(sig); cs != nil {
			for _, tp := range cs.TypeParams {
				model.TypeParams = append(model.TypeParams, tp.Name)
			}
			model.SuperClass = cs.Super
			model.Interfaces = cs.Interfaces
		}
	}
	if model.SuperClass == "" {
		if super := cf.SuperClassName(); super != "" {
			model.SuperClass = dottedSourceName(super)
		}
	}
	if len(model.Interfaces) == 0 {
		for _, iface := range cf.InterfaceNames() {
			model.Interfaces = append(model.Interfaces, dottedSourceName(iface))
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.Flags.IsSynthetic() {
			continue
		}
		model.Fields = append(model.Fields, fieldFromInfo(f, cf.Pool))
	}

	simple := model.SimpleName()
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Flags.IsSynthetic() || m.Flags.IsBridge() {
			continue
		}
		if m.IsStaticInitializer(cf.Pool) {
			continue
		}
		mm := methodFromInfo(m, cf.Pool)
		if m.IsConstructor(cf.Pool) {
			mm.Name = simple
			mm.IsConstructor = true
			mm.ReturnType = ""
			model.Constructors = append(model.Constructors, mm)
			continue
		}
		model.Methods = append(model.Methods, mm)
	}

	return model
}

func fieldFromInfo(f *classfile.Field, cp classfile.ConstantPool) FieldModel {
	model := FieldModel{
		Name:           f.Name(cp),
		Visibility:     visibilityFromFlags(f.Flags),
		IsStatic:       f.Flags.IsStatic(),
		IsFinal:        f.Flags.IsFinal(),
		IsEnumConstant: f.Flags.IsEnum(),
	}
	if sig := memberSignature(f.Attribute("Signature"), cp); sig != "" {
		model.Type = classfile.ParseFieldSignature(sig)
	}
	if model.Type == "" {
		if ft := f.DescriptorType(cp); ft != nil {
			model.Type = javaTypeText(ft)
		}
	}
	if idx, ok := f.Attribute("ConstantValue").ConstantValueIndex(); ok {
		model.Initializer = constantText(cp, idx, f.Descriptor(cp))
	}
	return model
}

func methodFromInfo(m *classfile.Method, cp classfile.ConstantPool) MethodModel {
	model := MethodModel{
		Name:       m.Name(cp),
		Visibility: visibilityFromFlags(m.Flags),
		IsStatic:   m.Flags.IsStatic(),
		IsAbstract: m.Flags.IsAbstract(),
		IsFinal:    m.Flags.IsFinal(),
	}

	var params []string
	ret := "void"
	parsed := false
	if sig := memberSignature(m.Attribute("Signature"), cp); sig != "" {
		if ms := classfile.ParseMethodSignature(sig); ms != nil {
			for _, tp := range ms.TypeParams {
				model.TypeParams = append(model.TypeParams, tp.Name)
			}
			params = ms.Parameters
			ret = ms.Return
			parsed = true
		}
	}
	if !parsed {
		if desc := m.DescriptorType(cp); desc != nil {
			for i := range desc.Params {
				params = append(params, javaTypeText(&desc.Params[i]))
			}
			if desc.Ret != nil {
				ret = javaTypeText(desc.Ret)
			}
		}
	}

	names := parameterNames(m, cp, len(params))
	for i, text := range params {
		p := ParameterModel{Name: names[i], Type: text}
		if m.Flags.IsVarargs() && i == len(params)-1 && strings.HasSuffix(text, "[]") {
			p.Type = strings.TrimSuffix(text, "[]")
			p.IsVarargs = true
		}
		model.Parameters = append(model.Parameters, p)
	}
	model.ReturnType = ret
	return model
}

func parameterNames(m *classfile.Method, cp classfile.ConstantPool, n int) []string {
	names := make([]string, n)
	for i, p := range m.Attribute("MethodParameters").MethodParameters() {
		if i < n {
			names[i] = cp.Utf8At(p.NameIdx)
		}
	}
	return names
}

// constantText renders a ConstantValue attribute as Java source text,
// so constants like Integer.MAX_VALUE can show their value in detail
// strings.
func constantText(cp classfile.ConstantPool, index uint16, descriptor string) string {
	switch descriptor {
	case "Z":
		if v, ok := cp.IntAt(index); ok {
			if v != 0 {
				return "true"
			}
			return "false"
		}
	case "C":
		if v, ok := cp.IntAt(index); ok {
			return strconv.QuoteRune(rune(v))
		}
	case "B", "S", "I":
		if v, ok := cp.IntAt(index); ok {
			return strconv.FormatInt(int64(v), 10)
		}
	case "J":
		if v, ok := cp.LongAt(index); ok {
			return strconv.FormatInt(v, 10) + "L"
		}
	case "F":
		if v, ok := cp.FloatAt(index); ok {
			return strconv.FormatFloat(float64(v), 'g', -1, 32) + "f"
		}
	case "D":
		if v, ok := cp.DoubleAt(index); ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case "Ljava/lang/String;":
		if s := cp.StringAt(index); s != "" {
			return strconv.Quote(s)
		}
	}
	return ""
}

func classKindOf(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return KindAnnotation
	case cf.IsEnum():
		return KindEnum
	case cf.IsInterface():
		return KindInterface
	case cf.Attribute("Record") != nil:
		return KindRecord
	default:
		return KindClass
	}
}

// nestedStatic reads the static modifier of a nested class from the
// InnerClasses attribute; the class-level access flags do not carry it.
func nestedStatic(cf *classfile.ClassFile) bool {
	self := cf.ClassName()
	for _, entry := range cf.Attribute("InnerClasses").InnerClasses() {
		if cf.Pool.ClassNameAt(entry.InnerInfo) == self {
			return entry.Flags.IsStatic()
		}
	}
	return false
}

func classSignature(cf *classfile.ClassFile) string {
	return memberSignature(cf.Attribute("Signature"), cf.Pool)
}

func memberSignature(attr *classfile.Attribute, cp classfile.ConstantPool) string {
	if idx, ok := attr.SignatureIndex(); ok {
		return cp.Utf8At(idx)
	}
	return ""
}

// javaTypeText renders an erased descriptor type as source text, with
// array suffixes in Java order.
func javaTypeText(ft *classfile.FieldType) string {
	var sb strings.Builder
	if ft.Primitive != "" {
		sb.WriteString(ft.Primitive)
	} else {
		sb.WriteString(dottedSourceName(ft.Internal))
	}
	for i := 0; i < ft.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// dottedSourceName turns an internal name like java/util/Map$Entry into
// the source form java.util.Map.Entry.
func dottedSourceName(internal string) string {
	return strings.ReplaceAll(classfile.InternalToSourceName(internal), "$", ".")
}

func visibilityFromFlags(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func splitBinaryName(binary string) (pkg, rest string) {
	if i := strings.LastIndexByte(binary, '.'); i >= 0 {
		return binary[:i], binary[i+1:]
	}
	return "", binary
}
