package classfile

import (
	"bytes"
	"testing"
)

// classBuilder assembles a minimal but well-formed class file in
// memory, so the parser can be tested without binary fixtures on disk.
type classBuilder struct {
	pool      bytes.Buffer
	poolCount uint16

	flags      AccessFlags
	thisIdx    uint16
	superIdx   uint16
	interfaces []uint16

	fields  bytes.Buffer
	nFields uint16

	methods  bytes.Buffer
	nMethods uint16

	attrs  bytes.Buffer
	nAttrs uint16
}

func newClassBuilder(thisName, superName string) *classBuilder {
	b := &classBuilder{flags: AccPublic | AccSuper}
	b.thisIdx = b.classRef(thisName)
	if superName != "" {
		b.superIdx = b.classRef(superName)
	}
	return b
}

func u2(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func u4(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func u2body(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func (b *classBuilder) utf8(s string) uint16 {
	return b.rawUtf8([]byte(s))
}

func (b *classBuilder) rawUtf8(raw []byte) uint16 {
	b.pool.WriteByte(byte(TagUtf8))
	u2(&b.pool, uint16(len(raw)))
	b.pool.Write(raw)
	b.poolCount++
	return b.poolCount
}

func (b *classBuilder) classRef(name string) uint16 {
	nameIdx := b.utf8(name)
	b.pool.WriteByte(byte(TagClass))
	u2(&b.pool, nameIdx)
	b.poolCount++
	return b.poolCount
}

func (b *classBuilder) intConst(v int32) uint16 {
	b.pool.WriteByte(byte(TagInteger))
	u4(&b.pool, uint32(v))
	b.poolCount++
	return b.poolCount
}

// longConst occupies two pool slots, as the format demands.
func (b *classBuilder) longConst(v int64) uint16 {
	b.pool.WriteByte(byte(TagLong))
	u4(&b.pool, uint32(uint64(v)>>32))
	u4(&b.pool, uint32(uint64(v)))
	b.poolCount += 2
	return b.poolCount - 1
}

func (b *classBuilder) stringConst(s string) uint16 {
	utf8Idx := b.utf8(s)
	b.pool.WriteByte(byte(TagString))
	u2(&b.pool, utf8Idx)
	b.poolCount++
	return b.poolCount
}

type memberAttr struct {
	name string
	body []byte
}

func (b *classBuilder) writeAttr(buf *bytes.Buffer, a memberAttr) {
	u2(buf, b.utf8(a.name))
	u4(buf, uint32(len(a.body)))
	buf.Write(a.body)
}

func (b *classBuilder) addInterface(name string) {
	b.interfaces = append(b.interfaces, b.classRef(name))
}

func (b *classBuilder) addField(flags AccessFlags, name, desc string, attrs ...memberAttr) {
	u2(&b.fields, uint16(flags))
	u2(&b.fields, b.utf8(name))
	u2(&b.fields, b.utf8(desc))
	u2(&b.fields, uint16(len(attrs)))
	for _, a := range attrs {
		b.writeAttr(&b.fields, a)
	}
	b.nFields++
}

func (b *classBuilder) addMethod(flags AccessFlags, name, desc string, attrs ...memberAttr) {
	u2(&b.methods, uint16(flags))
	u2(&b.methods, b.utf8(name))
	u2(&b.methods, b.utf8(desc))
	u2(&b.methods, uint16(len(attrs)))
	for _, a := range attrs {
		b.writeAttr(&b.methods, a)
	}
	b.nMethods++
}

func (b *classBuilder) addClassAttr(name string, body []byte) {
	b.writeAttr(&b.attrs, memberAttr{name: name, body: body})
	b.nAttrs++
}

func (b *classBuilder) bytes() []byte {
	var out bytes.Buffer
	u4(&out, Magic)
	u2(&out, 0)  // minor
	u2(&out, 65) // major, Java 21
	u2(&out, b.poolCount+1)
	out.Write(b.pool.Bytes())
	u2(&out, uint16(b.flags))
	u2(&out, b.thisIdx)
	u2(&out, b.superIdx)
	u2(&out, uint16(len(b.interfaces)))
	for _, idx := range b.interfaces {
		u2(&out, idx)
	}
	u2(&out, b.nFields)
	out.Write(b.fields.Bytes())
	u2(&out, b.nMethods)
	out.Write(b.methods.Bytes())
	u2(&out, b.nAttrs)
	out.Write(b.attrs.Bytes())
	return out.Bytes()
}

func (b *classBuilder) parse(t *testing.T) *ClassFile {
	t.Helper()
	cf, err := Parse(bytes.NewReader(b.bytes()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return cf
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0})); err == nil {
		t.Fatal("Parse accepted a stream without the class file magic")
	}
	if _, err := Parse(bytes.NewReader(nil)); err == nil {
		t.Fatal("Parse accepted an empty stream")
	}
}

func TestParseMinimalClass(t *testing.T) {
	b := newClassBuilder("com/example/Widget", "java/lang/Object")
	b.addInterface("java/lang/Runnable")
	cf := b.parse(t)

	if got := cf.ClassName(); got != "com/example/Widget" {
		t.Errorf("ClassName() = %q, want %q", got, "com/example/Widget")
	}
	if got := cf.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
	}
	ifaces := cf.InterfaceNames()
	if len(ifaces) != 1 || ifaces[0] != "java/lang/Runnable" {
		t.Errorf("InterfaceNames() = %v, want [java/lang/Runnable]", ifaces)
	}
	if cf.IsInterface() || cf.IsAnnotation() || cf.IsEnum() || cf.IsModule() {
		t.Error("kind predicates disagree for a plain class")
	}
	if !cf.Flags.IsPublic() {
		t.Error("Flags lost the public bit")
	}
	if cf.Major != 65 {
		t.Errorf("Major = %d, want 65", cf.Major)
	}
}

func TestParseFieldsAndMethods(t *testing.T) {
	b := newClassBuilder("com/example/Widget", "java/lang/Object")
	limit := b.intConst(42)
	b.addField(AccPrivate, "name", "Ljava/lang/String;")
	b.addField(AccPublic|AccStatic|AccFinal, "LIMIT", "I",
		memberAttr{name: "ConstantValue", body: u2body(limit)})
	b.addMethod(AccPublic, "<init>", "()V")
	b.addMethod(AccPublic, "<init>", "(Ljava/lang/String;)V")
	b.addMethod(AccPublic, "getName", "()Ljava/lang/String;")
	b.addMethod(AccPrivate|AccStatic, "helper", "(II)I")
	cf := b.parse(t)

	name := cf.FieldNamed("name")
	if name == nil {
		t.Fatal("FieldNamed(name) = nil")
	}
	if !name.Flags.IsPrivate() || name.Descriptor(cf.Pool) != "Ljava/lang/String;" {
		t.Errorf("name field = flags %v descriptor %q", name.Flags, name.Descriptor(cf.Pool))
	}

	limitField := cf.FieldNamed("LIMIT")
	if limitField == nil {
		t.Fatal("FieldNamed(LIMIT) = nil")
	}
	if !limitField.Flags.IsStatic() || !limitField.Flags.IsFinal() {
		t.Error("LIMIT should be static final")
	}
	idx, ok := limitField.Attribute("ConstantValue").ConstantValueIndex()
	if !ok {
		t.Fatal("LIMIT has no ConstantValue attribute")
	}
	if v, ok := cf.Pool.IntAt(idx); !ok || v != 42 {
		t.Errorf("ConstantValue = %d, %v, want 42, true", v, ok)
	}

	if ctors := cf.MethodsNamed("<init>"); len(ctors) != 2 {
		t.Fatalf("MethodsNamed(<init>) returned %d methods, want 2", len(ctors))
	}
	if m := cf.MethodNamed("<init>", "(Ljava/lang/String;)V"); m == nil {
		t.Error("MethodNamed did not find the one-argument constructor")
	}
	helper := cf.MethodNamed("helper", "(II)I")
	if helper == nil {
		t.Fatal("MethodNamed(helper) = nil")
	}
	if !helper.Flags.IsPrivate() || !helper.Flags.IsStatic() {
		t.Error("helper should be private static")
	}
	if helper.IsConstructor(cf.Pool) || helper.IsStaticInitializer(cf.Pool) {
		t.Error("helper misidentified as initializer")
	}
}

func TestParseLongConstantTakesTwoSlots(t *testing.T) {
	b := newClassBuilder("com/example/Big", "java/lang/Object")
	longIdx := b.longConst(1 << 40)
	after := b.utf8("after")
	cf := b.parse(t)

	if v, ok := cf.Pool.LongAt(longIdx); !ok || v != 1<<40 {
		t.Errorf("LongAt(%d) = %d, %v, want %d, true", longIdx, v, ok, int64(1)<<40)
	}
	// The entry after a long sits one index beyond the phantom slot.
	if got := cf.Pool.Utf8At(after); got != "after" {
		t.Errorf("Utf8At(%d) = %q, want %q", after, got, "after")
	}
}

func TestParseUnknownAttributePassesThrough(t *testing.T) {
	b := newClassBuilder("com/example/Odd", "java/lang/Object")
	b.addClassAttr("WhimsicalExtension", []byte{1, 2, 3, 4})
	cf := b.parse(t)

	attr := cf.Attribute("WhimsicalExtension")
	if attr == nil {
		t.Fatal("unknown attribute was dropped")
	}
	if !bytes.Equal(attr.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("Data = %v, want [1 2 3 4]", attr.Data)
	}
}

func TestParseSignatureAttribute(t *testing.T) {
	b := newClassBuilder("com/example/Box", "java/lang/Object")
	sigIdx := b.utf8("<T:Ljava/lang/Object;>Ljava/lang/Object;")
	b.addClassAttr("Signature", u2body(sigIdx))
	cf := b.parse(t)

	idx, ok := cf.Attribute("Signature").SignatureIndex()
	if !ok {
		t.Fatal("Signature attribute missing")
	}
	if got := cf.Pool.Utf8At(idx); got != "<T:Ljava/lang/Object;>Ljava/lang/Object;" {
		t.Errorf("signature text = %q", got)
	}
}

func TestParseInnerClassesAttribute(t *testing.T) {
	b := newClassBuilder("com/example/Outer$Inner", "java/lang/Object")
	innerName := b.utf8("Inner")
	var body bytes.Buffer
	u2(&body, 1)
	u2(&body, b.thisIdx) // inner class info
	u2(&body, 0)         // outer class info
	u2(&body, innerName)
	u2(&body, uint16(AccPublic|AccStatic))
	b.addClassAttr("InnerClasses", body.Bytes())
	cf := b.parse(t)

	classes := cf.Attribute("InnerClasses").InnerClasses()
	if len(classes) != 1 {
		t.Fatalf("InnerClasses decoded to %+v", classes)
	}
	entry := classes[0]
	if got := cf.Pool.ClassNameAt(entry.InnerInfo); got != "com/example/Outer$Inner" {
		t.Errorf("inner class name = %q", got)
	}
	if !entry.Flags.IsStatic() {
		t.Error("inner class flags lost the static bit")
	}
}

func TestParseMethodParametersAttribute(t *testing.T) {
	b := newClassBuilder("com/example/Named", "java/lang/Object")
	p0 := b.utf8("first")
	p1 := b.utf8("second")
	var body bytes.Buffer
	body.WriteByte(2)
	u2(&body, p0)
	u2(&body, 0)
	u2(&body, p1)
	u2(&body, uint16(AccFinal))
	b.addMethod(AccPublic, "pair", "(ILjava/lang/String;)V",
		memberAttr{name: "MethodParameters", body: body.Bytes()})
	cf := b.parse(t)

	m := cf.MethodNamed("pair", "")
	if m == nil {
		t.Fatal("MethodNamed(pair) = nil")
	}
	params := m.Attribute("MethodParameters").MethodParameters()
	if len(params) != 2 {
		t.Fatalf("MethodParameters decoded to %+v", params)
	}
	if got := cf.Pool.Utf8At(params[0].NameIdx); got != "first" {
		t.Errorf("parameter 0 name = %q, want %q", got, "first")
	}
	if !params[1].Flags.IsFinal() {
		t.Error("parameter 1 lost the final bit")
	}
}

func TestParseRecordAttribute(t *testing.T) {
	b := newClassBuilder("com/example/Point", "java/lang/Record")
	compName := b.utf8("x")
	compDesc := b.utf8("I")
	var body bytes.Buffer
	u2(&body, 1)
	u2(&body, compName)
	u2(&body, compDesc)
	u2(&body, 0) // component attributes
	b.addClassAttr("Record", body.Bytes())
	cf := b.parse(t)

	comps := cf.Attribute("Record").RecordComponents(cf.Pool)
	if len(comps) != 1 {
		t.Fatalf("Record decoded to %+v", comps)
	}
	comp := comps[0]
	if cf.Pool.Utf8At(comp.NameIdx) != "x" || cf.Pool.Utf8At(comp.DescIdx) != "I" {
		t.Errorf("component = %q %q, want x I",
			cf.Pool.Utf8At(comp.NameIdx), cf.Pool.Utf8At(comp.DescIdx))
	}
}

func TestParseSyntheticAndBridgeFlags(t *testing.T) {
	b := newClassBuilder("com/example/Gen", "java/lang/Object")
	b.addMethod(AccPublic|AccSynthetic, "lambda$run$0", "()V")
	b.addMethod(AccPublic|AccBridge|AccSynthetic, "compareTo", "(Ljava/lang/Object;)I")
	cf := b.parse(t)

	if m := cf.MethodNamed("lambda$run$0", ""); m == nil || !m.Flags.IsSynthetic() {
		t.Error("synthetic flag not preserved")
	}
	if m := cf.MethodNamed("compareTo", ""); m == nil || !m.Flags.IsBridge() {
		t.Error("bridge flag not preserved")
	}
}

func TestParseModifiedUtf8(t *testing.T) {
	b := newClassBuilder("com/example/Text", "java/lang/Object")
	// "a", embedded NUL in the two-byte form, then "b".
	withNul := b.rawUtf8([]byte{'a', 0xC0, 0x80, 'b'})
	// A surrogate pair in the six-byte CESU form: U+1F600.
	smiley := b.rawUtf8([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80})
	cf := b.parse(t)

	if got := cf.Pool.Utf8At(withNul); got != "a\x00b" {
		t.Errorf("Utf8At = %q, want %q", got, "a\x00b")
	}
	if got := cf.Pool.Utf8At(smiley); got != "\U0001F600" {
		t.Errorf("Utf8At = %q, want %q", got, "\U0001F600")
	}
}

func TestParseStringConstant(t *testing.T) {
	b := newClassBuilder("com/example/Text", "java/lang/Object")
	idx := b.stringConst("hello")
	cf := b.parse(t)
	if got := cf.Pool.StringAt(idx); got != "hello" {
		t.Errorf("StringAt(%d) = %q, want %q", idx, got, "hello")
	}
}

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		baseType   string
		className  string
		arrayDepth int
		rendered   string
	}{
		{"I", "int", "", 0, "int"},
		{"Z", "boolean", "", 0, "boolean"},
		{"Ljava/lang/String;", "", "java/lang/String", 0, "java.lang.String"},
		{"[I", "int", "", 1, "int[]"},
		{"[[D", "double", "", 2, "double[][]"},
		{"[Ljava/lang/Object;", "", "java/lang/Object", 1, "java.lang.Object[]"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft := ParseFieldDescriptor(tt.desc)
			if ft == nil {
				t.Fatalf("ParseFieldDescriptor(%q) returned nil", tt.desc)
			}
			if ft.Primitive != tt.baseType {
				t.Errorf("Primitive = %q, want %q", ft.Primitive, tt.baseType)
			}
			if ft.Internal != tt.className {
				t.Errorf("Internal = %q, want %q", ft.Internal, tt.className)
			}
			if ft.Dims != tt.arrayDepth {
				t.Errorf("Dims = %d, want %d", ft.Dims, tt.arrayDepth)
			}
			if got := ft.String(); got != tt.rendered {
				t.Errorf("String() = %q, want %q", got, tt.rendered)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc      string
		numParams int
		rendered  string
	}{
		{"()V", 0, "() void"},
		{"()I", 0, "() int"},
		{"(I)V", 1, "(int) void"},
		{"(II)I", 2, "(int, int) int"},
		{"(Ljava/lang/String;)V", 1, "(java.lang.String) void"},
		{"(IDLjava/lang/Thread;)Ljava/lang/Object;", 3, "(int, double, java.lang.Thread) java.lang.Object"},
		{"([Ljava/lang/String;)V", 1, "(java.lang.String[]) void"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := ParseMethodDescriptor(tt.desc)
			if md == nil {
				t.Fatalf("ParseMethodDescriptor(%q) returned nil", tt.desc)
			}
			if len(md.Params) != tt.numParams {
				t.Errorf("len(Params) = %d, want %d", len(md.Params), tt.numParams)
			}
			if got := md.String(); got != tt.rendered {
				t.Errorf("String() = %q, want %q", got, tt.rendered)
			}
		})
	}
}

func TestParseMethodDescriptorRejectsMalformed(t *testing.T) {
	for _, desc := range []string{"", "I", "(", "(I", "(Ljava/lang/String)V", "(X)V"} {
		if md := ParseMethodDescriptor(desc); md != nil {
			t.Errorf("ParseMethodDescriptor(%q) = %+v, want nil", desc, md)
		}
	}
}
