package classfile

// Member carries what fields and methods have in common: the modifier
// word, pool indexes for name and descriptor, and the attribute list.
type Member struct {
	Flags      AccessFlags
	NameIdx    uint16
	DescIdx    uint16
	Attributes []Attribute
}

// Name resolves the member name against the pool.
func (m *Member) Name(p ConstantPool) string { return p.Utf8At(m.NameIdx) }

// Descriptor resolves the erased JVM descriptor, such as
// (Ljava/lang/String;)I.
func (m *Member) Descriptor(p ConstantPool) string { return p.Utf8At(m.DescIdx) }

// Attribute returns the named member attribute, or nil.
func (m *Member) Attribute(name string) *Attribute {
	return attributeNamed(m.Attributes, name)
}

// Field is one declared field.
type Field struct {
	Member
}

// DescriptorType decodes the field's erased type. Nil means the
// descriptor was malformed.
func (f *Field) DescriptorType(p ConstantPool) *FieldType {
	return ParseFieldDescriptor(f.Descriptor(p))
}

// Method is one declared method or constructor.
type Method struct {
	Member
}

// IsConstructor reports an <init> method.
func (m *Method) IsConstructor(p ConstantPool) bool { return m.Name(p) == "<init>" }

// IsStaticInitializer reports the <clinit> method.
func (m *Method) IsStaticInitializer(p ConstantPool) bool { return m.Name(p) == "<clinit>" }

// DescriptorType decodes the erased parameter and return types. Nil
// means the descriptor was malformed.
func (m *Method) DescriptorType(p ConstantPool) *MethodDescriptor {
	return ParseMethodDescriptor(m.Descriptor(p))
}
