// Package classfile reads compiled Java class files far enough to
// recover a type's shape: its name, hierarchy, members, signatures, and
// the attributes that carry generic and record information. Bytecode
// bodies are never decoded.
package classfile

// Magic opens every class file.
const Magic = 0xCAFEBABE

// AccessFlags is the packed modifier word used on classes, fields, and
// methods. Some bits are shared between contexts (0x0020 is ACC_SUPER
// on a class and ACC_SYNCHRONIZED on a method); the constants keep the
// names apart, the value is the same.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) IsPublic() bool     { return f&AccPublic != 0 }
func (f AccessFlags) IsPrivate() bool    { return f&AccPrivate != 0 }
func (f AccessFlags) IsProtected() bool  { return f&AccProtected != 0 }
func (f AccessFlags) IsStatic() bool     { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool      { return f&AccFinal != 0 }
func (f AccessFlags) IsBridge() bool     { return f&AccBridge != 0 }
func (f AccessFlags) IsVarargs() bool    { return f&AccVarargs != 0 }
func (f AccessFlags) IsInterface() bool  { return f&AccInterface != 0 }
func (f AccessFlags) IsAbstract() bool   { return f&AccAbstract != 0 }
func (f AccessFlags) IsSynthetic() bool  { return f&AccSynthetic != 0 }
func (f AccessFlags) IsAnnotation() bool { return f&AccAnnotation != 0 }
func (f AccessFlags) IsEnum() bool       { return f&AccEnum != 0 }
func (f AccessFlags) IsModule() bool     { return f&AccModule != 0 }

// ClassFile is one parsed class. Names and descriptors stay as pool
// indexes; accessors resolve them against Pool on demand.
type ClassFile struct {
	Minor uint16
	Major uint16

	Pool       ConstantPool
	Flags      AccessFlags
	ThisClass  uint16
	SuperClass uint16
	Interfaces []uint16
	Fields     []Field
	Methods    []Method
	Attributes []Attribute
}

// ClassName returns the internal name of the class itself, such as
// java/util/Map$Entry.
func (cf *ClassFile) ClassName() string {
	return cf.Pool.ClassNameAt(cf.ThisClass)
}

// SuperClassName returns the internal name of the superclass, or ""
// for java/lang/Object and modules.
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.Pool.ClassNameAt(cf.SuperClass)
}

// InterfaceNames returns the internal names of the direct interfaces.
func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.Pool.ClassNameAt(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.Flags.IsInterface() && !cf.Flags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.Flags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.Flags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.Flags.IsModule() }

// Attribute returns the named class-level attribute, or nil.
func (cf *ClassFile) Attribute(name string) *Attribute {
	return attributeNamed(cf.Attributes, name)
}

// FieldNamed returns the declared field with the given name, or nil.
func (cf *ClassFile) FieldNamed(name string) *Field {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.Pool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// MethodNamed returns the first method matching name, and descriptor
// when one is given, or nil.
func (cf *ClassFile) MethodNamed(name, descriptor string) *Method {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name(cf.Pool) != name {
			continue
		}
		if descriptor == "" || m.Descriptor(cf.Pool) == descriptor {
			return m
		}
	}
	return nil
}

// MethodsNamed returns every method overloading the given name.
func (cf *ClassFile) MethodsNamed(name string) []*Method {
	var methods []*Method
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.Pool) == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}
