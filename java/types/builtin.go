package types

import (
	"strings"

	"github.com/dhamidi/jig/java"
)

// builtinDefs is a compact model of the core library, enough for
// completion on String, collections, streams and System.out to work
// before any classpath is configured. A stub provider, when present,
// takes precedence over these definitions.
func builtinDefs() []*ClassDef {
	var models []*java.ClassModel
	models = append(models, builtinLang()...)
	models = append(models, builtinIO()...)
	models = append(models, builtinUtil()...)
	models = append(models, builtinFunction()...)
	models = append(models, builtinStream()...)

	defs := make([]*ClassDef, len(models))
	for i, m := range models {
		defs[i] = &ClassDef{
			Id:    ClassId(m.BinaryName),
			Model: m,
			Ctx:   ResolveCtx{Package: m.Package},
		}
	}
	return defs
}

func bcls(binary string, kind java.ClassKind, super string, ifaces []string, typeParams []string) *java.ClassModel {
	id := ClassId(binary)
	pkg := id.Package()
	name := string(id)
	if pkg != "" {
		name = name[len(pkg)+1:]
	}
	return &java.ClassModel{
		Package:    pkg,
		Name:       strings.ReplaceAll(name, "$", "."),
		BinaryName: binary,
		Kind:       kind,
		Visibility: java.VisibilityPublic,
		SuperClass: super,
		Interfaces: ifaces,
		TypeParams: typeParams,
	}
}

func bm(name, ret string, params ...java.ParameterModel) java.MethodModel {
	return java.MethodModel{
		Name:       name,
		ReturnType: ret,
		Parameters: params,
		Visibility: java.VisibilityPublic,
	}
}

func bsm(name, ret string, params ...java.ParameterModel) java.MethodModel {
	m := bm(name, ret, params...)
	m.IsStatic = true
	return m
}

func btm(typeParams []string, name, ret string, params ...java.ParameterModel) java.MethodModel {
	m := bm(name, ret, params...)
	m.TypeParams = typeParams
	return m
}

func bstm(typeParams []string, name, ret string, params ...java.ParameterModel) java.MethodModel {
	m := btm(typeParams, name, ret, params...)
	m.IsStatic = true
	return m
}

func bp(name, typ string) java.ParameterModel {
	return java.ParameterModel{Name: name, Type: typ}
}

func bvp(name, typ string) java.ParameterModel {
	return java.ParameterModel{Name: name, Type: typ, IsVarargs: true}
}

func bconst(name, typ string) java.FieldModel {
	return java.FieldModel{
		Name: name, Type: typ,
		Visibility: java.VisibilityPublic,
		IsStatic:   true, IsFinal: true,
	}
}

func bctor(owner string, params ...java.ParameterModel) java.MethodModel {
	m := bm(owner, "", params...)
	m.IsConstructor = true
	return m
}

func builtinLang() []*java.ClassModel {
	object := bcls("java.lang.Object", java.KindClass, "", nil, nil)
	object.Methods = []java.MethodModel{
		bm("equals", "boolean", bp("obj", "Object")),
		bm("hashCode", "int"),
		bm("toString", "String"),
		bm("getClass", "Class<?>"),
	}

	str := bcls("java.lang.String", java.KindClass, "Object",
		[]string{"CharSequence", "Comparable<String>"}, nil)
	str.Methods = []java.MethodModel{
		bm("length", "int"),
		bm("isEmpty", "boolean"),
		bm("charAt", "char", bp("index", "int")),
		bm("substring", "String", bp("beginIndex", "int")),
		bm("substring", "String", bp("beginIndex", "int"), bp("endIndex", "int")),
		bm("contains", "boolean", bp("s", "CharSequence")),
		bm("startsWith", "boolean", bp("prefix", "String")),
		bm("endsWith", "boolean", bp("suffix", "String")),
		bm("indexOf", "int", bp("str", "String")),
		bm("indexOf", "int", bp("ch", "int")),
		bm("replace", "String", bp("target", "CharSequence"), bp("replacement", "CharSequence")),
		bm("split", "String[]", bp("regex", "String")),
		bm("trim", "String"),
		bm("strip", "String"),
		bm("toUpperCase", "String"),
		bm("toLowerCase", "String"),
		bm("toCharArray", "char[]"),
		bm("equalsIgnoreCase", "boolean", bp("anotherString", "String")),
		bm("compareTo", "int", bp("anotherString", "String")),
		bsm("format", "String", bp("format", "String"), bvp("args", "Object")),
		bsm("valueOf", "String", bp("obj", "Object")),
		bsm("join", "String", bp("delimiter", "CharSequence"), bvp("elements", "CharSequence")),
	}

	charSeq := bcls("java.lang.CharSequence", java.KindInterface, "", nil, nil)
	charSeq.Methods = []java.MethodModel{
		bm("length", "int"),
		bm("charAt", "char", bp("index", "int")),
		bm("isEmpty", "boolean"),
		bm("toString", "String"),
	}

	comparable := bcls("java.lang.Comparable", java.KindInterface, "", nil, []string{"T"})
	comparable.Methods = []java.MethodModel{
		bm("compareTo", "int", bp("o", "T")),
	}

	iterable := bcls("java.lang.Iterable", java.KindInterface, "", nil, []string{"T"})
	iterable.Methods = []java.MethodModel{
		bm("iterator", "java.util.Iterator<T>"),
		bm("forEach", "void", bp("action", "java.util.function.Consumer<? super T>")),
	}

	class := bcls("java.lang.Class", java.KindClass, "Object", nil, []string{"T"})
	class.Methods = []java.MethodModel{
		bm("getName", "String"),
		bm("getSimpleName", "String"),
		bm("isInstance", "boolean", bp("obj", "Object")),
		bm("getSuperclass", "Class<?>"),
	}

	number := bcls("java.lang.Number", java.KindClass, "Object", nil, nil)
	number.IsAbstract = true
	number.Methods = []java.MethodModel{
		bm("intValue", "int"),
		bm("longValue", "long"),
		bm("floatValue", "float"),
		bm("doubleValue", "double"),
	}

	integer := bcls("java.lang.Integer", java.KindClass, "Number", []string{"Comparable<Integer>"}, nil)
	integer.Fields = []java.FieldModel{bconst("MAX_VALUE", "int"), bconst("MIN_VALUE", "int")}
	integer.Methods = []java.MethodModel{
		bsm("parseInt", "int", bp("s", "String")),
		bsm("valueOf", "Integer", bp("i", "int")),
		bsm("toString", "String", bp("i", "int")),
		bm("compareTo", "int", bp("anotherInteger", "Integer")),
	}

	long := bcls("java.lang.Long", java.KindClass, "Number", []string{"Comparable<Long>"}, nil)
	long.Fields = []java.FieldModel{bconst("MAX_VALUE", "long"), bconst("MIN_VALUE", "long")}
	long.Methods = []java.MethodModel{
		bsm("parseLong", "long", bp("s", "String")),
		bsm("valueOf", "Long", bp("l", "long")),
	}

	double := bcls("java.lang.Double", java.KindClass, "Number", []string{"Comparable<Double>"}, nil)
	double.Fields = []java.FieldModel{bconst("MAX_VALUE", "double"), bconst("MIN_VALUE", "double")}
	double.Methods = []java.MethodModel{
		bsm("parseDouble", "double", bp("s", "String")),
		bsm("valueOf", "Double", bp("d", "double")),
	}

	float := bcls("java.lang.Float", java.KindClass, "Number", []string{"Comparable<Float>"}, nil)
	float.Methods = []java.MethodModel{
		bsm("parseFloat", "float", bp("s", "String")),
		bsm("valueOf", "Float", bp("f", "float")),
	}

	short := bcls("java.lang.Short", java.KindClass, "Number", []string{"Comparable<Short>"}, nil)
	short.Methods = []java.MethodModel{bsm("parseShort", "short", bp("s", "String"))}

	byteCls := bcls("java.lang.Byte", java.KindClass, "Number", []string{"Comparable<Byte>"}, nil)
	byteCls.Methods = []java.MethodModel{bsm("parseByte", "byte", bp("s", "String"))}

	boolean := bcls("java.lang.Boolean", java.KindClass, "Object", []string{"Comparable<Boolean>"}, nil)
	boolean.Fields = []java.FieldModel{bconst("TRUE", "Boolean"), bconst("FALSE", "Boolean")}
	boolean.Methods = []java.MethodModel{
		bsm("parseBoolean", "boolean", bp("s", "String")),
		bsm("valueOf", "Boolean", bp("b", "boolean")),
		bm("booleanValue", "boolean"),
	}

	character := bcls("java.lang.Character", java.KindClass, "Object", []string{"Comparable<Character>"}, nil)
	character.Methods = []java.MethodModel{
		bsm("isDigit", "boolean", bp("ch", "char")),
		bsm("isLetter", "boolean", bp("ch", "char")),
		bsm("isWhitespace", "boolean", bp("ch", "char")),
		bm("charValue", "char"),
	}

	math := bcls("java.lang.Math", java.KindClass, "Object", nil, nil)
	math.Fields = []java.FieldModel{bconst("PI", "double"), bconst("E", "double")}
	math.Methods = []java.MethodModel{
		bsm("abs", "int", bp("a", "int")),
		bsm("abs", "long", bp("a", "long")),
		bsm("abs", "double", bp("a", "double")),
		bsm("max", "int", bp("a", "int"), bp("b", "int")),
		bsm("max", "double", bp("a", "double"), bp("b", "double")),
		bsm("min", "int", bp("a", "int"), bp("b", "int")),
		bsm("min", "double", bp("a", "double"), bp("b", "double")),
		bsm("sqrt", "double", bp("a", "double")),
		bsm("pow", "double", bp("a", "double"), bp("b", "double")),
		bsm("floor", "double", bp("a", "double")),
		bsm("ceil", "double", bp("a", "double")),
		bsm("random", "double"),
	}

	system := bcls("java.lang.System", java.KindClass, "Object", nil, nil)
	system.Fields = []java.FieldModel{
		bconst("out", "java.io.PrintStream"),
		bconst("err", "java.io.PrintStream"),
		bconst("in", "java.io.InputStream"),
	}
	system.Methods = []java.MethodModel{
		bsm("currentTimeMillis", "long"),
		bsm("nanoTime", "long"),
		bsm("getProperty", "String", bp("key", "String")),
		bsm("getenv", "String", bp("name", "String")),
		bsm("lineSeparator", "String"),
		bsm("exit", "void", bp("status", "int")),
		bsm("arraycopy", "void",
			bp("src", "Object"), bp("srcPos", "int"),
			bp("dest", "Object"), bp("destPos", "int"), bp("length", "int")),
	}

	sb := bcls("java.lang.StringBuilder", java.KindClass, "Object", []string{"CharSequence"}, nil)
	sb.Constructors = []java.MethodModel{
		bctor("StringBuilder"),
		bctor("StringBuilder", bp("str", "String")),
		bctor("StringBuilder", bp("capacity", "int")),
	}
	sb.Methods = []java.MethodModel{
		bm("append", "StringBuilder", bp("str", "String")),
		bm("append", "StringBuilder", bp("obj", "Object")),
		bm("append", "StringBuilder", bp("i", "int")),
		bm("append", "StringBuilder", bp("c", "char")),
		bm("toString", "String"),
		bm("length", "int"),
		bm("charAt", "char", bp("index", "int")),
		bm("reverse", "StringBuilder"),
	}

	enum := bcls("java.lang.Enum", java.KindClass, "Object", []string{"Comparable<E>"}, []string{"E"})
	enum.IsAbstract = true
	enum.Methods = []java.MethodModel{
		bm("name", "String"),
		bm("ordinal", "int"),
		bm("compareTo", "int", bp("o", "E")),
	}

	throwable := bcls("java.lang.Throwable", java.KindClass, "Object", nil, nil)
	throwable.Methods = []java.MethodModel{
		bm("getMessage", "String"),
		bm("getCause", "Throwable"),
		bm("printStackTrace", "void"),
	}

	runnable := bcls("java.lang.Runnable", java.KindInterface, "", nil, nil)
	runnable.Methods = []java.MethodModel{bm("run", "void")}

	thread := bcls("java.lang.Thread", java.KindClass, "Object", []string{"Runnable"}, nil)
	thread.Constructors = []java.MethodModel{
		bctor("Thread"),
		bctor("Thread", bp("target", "Runnable")),
	}
	thread.Methods = []java.MethodModel{
		bm("start", "void"),
		bm("run", "void"),
		bm("join", "void"),
		bm("interrupt", "void"),
		bsm("sleep", "void", bp("millis", "long")),
		bsm("currentThread", "Thread"),
	}

	return []*java.ClassModel{
		object, str, charSeq, comparable, iterable, class, number,
		integer, long, double, float, short, byteCls, boolean, character,
		math, system, sb, enum, throwable, runnable, thread,
		bcls("java.lang.Cloneable", java.KindInterface, "", nil, nil),
		bcls("java.lang.AutoCloseable", java.KindInterface, "", nil, nil),
		exception("java.lang.Exception", "Throwable"),
		exception("java.lang.RuntimeException", "Exception"),
		exception("java.lang.IllegalArgumentException", "RuntimeException"),
		exception("java.lang.IllegalStateException", "RuntimeException"),
		exception("java.lang.NullPointerException", "RuntimeException"),
		exception("java.lang.UnsupportedOperationException", "RuntimeException"),
	}
}

func exception(binary, super string) *java.ClassModel {
	ex := bcls(binary, java.KindClass, super, nil, nil)
	simple := ClassId(binary).Simple()
	ex.Constructors = []java.MethodModel{
		bctor(simple),
		bctor(simple, bp("message", "String")),
		bctor(simple, bp("message", "String"), bp("cause", "Throwable")),
	}
	return ex
}

func builtinIO() []*java.ClassModel {
	ps := bcls("java.io.PrintStream", java.KindClass, "Object", nil, nil)
	ps.Methods = []java.MethodModel{
		bm("println", "void"),
		bm("println", "void", bp("x", "String")),
		bm("println", "void", bp("x", "Object")),
		bm("println", "void", bp("x", "int")),
		bm("println", "void", bp("x", "long")),
		bm("println", "void", bp("x", "double")),
		bm("println", "void", bp("x", "char")),
		bm("println", "void", bp("x", "boolean")),
		bm("print", "void", bp("s", "String")),
		bm("print", "void", bp("obj", "Object")),
		bm("print", "void", bp("i", "int")),
		bm("printf", "java.io.PrintStream", bp("format", "String"), bvp("args", "Object")),
		bm("flush", "void"),
		bm("close", "void"),
	}

	is := bcls("java.io.InputStream", java.KindClass, "Object", []string{"java.lang.AutoCloseable"}, nil)
	is.Methods = []java.MethodModel{
		bm("read", "int"),
		bm("close", "void"),
	}

	ioe := exception("java.io.IOException", "java.lang.Exception")

	serializable := bcls("java.io.Serializable", java.KindInterface, "", nil, nil)

	return []*java.ClassModel{ps, is, ioe, serializable}
}

func builtinUtil() []*java.ClassModel {
	iterator := bcls("java.util.Iterator", java.KindInterface, "", nil, []string{"E"})
	iterator.Methods = []java.MethodModel{
		bm("hasNext", "boolean"),
		bm("next", "E"),
		bm("remove", "void"),
	}

	collection := bcls("java.util.Collection", java.KindInterface, "",
		[]string{"java.lang.Iterable<E>"}, []string{"E"})
	collection.Methods = []java.MethodModel{
		bm("size", "int"),
		bm("isEmpty", "boolean"),
		bm("contains", "boolean", bp("o", "Object")),
		bm("add", "boolean", bp("e", "E")),
		bm("remove", "boolean", bp("o", "Object")),
		bm("clear", "void"),
		bm("toArray", "Object[]"),
		bm("stream", "java.util.stream.Stream<E>"),
	}

	list := bcls("java.util.List", java.KindInterface, "",
		[]string{"Collection<E>"}, []string{"E"})
	list.Methods = []java.MethodModel{
		bm("get", "E", bp("index", "int")),
		bm("set", "E", bp("index", "int"), bp("element", "E")),
		bm("add", "void", bp("index", "int"), bp("element", "E")),
		bm("indexOf", "int", bp("o", "Object")),
		bm("subList", "List<E>", bp("fromIndex", "int"), bp("toIndex", "int")),
		bstm([]string{"E"}, "of", "List<E>", bvp("elements", "E")),
		bstm([]string{"E"}, "copyOf", "List<E>", bp("coll", "Collection<? extends E>")),
	}

	arrayList := bcls("java.util.ArrayList", java.KindClass, "Object",
		[]string{"List<E>"}, []string{"E"})
	arrayList.Constructors = []java.MethodModel{
		bctor("ArrayList"),
		bctor("ArrayList", bp("initialCapacity", "int")),
		bctor("ArrayList", bp("c", "Collection<? extends E>")),
	}

	set := bcls("java.util.Set", java.KindInterface, "",
		[]string{"Collection<E>"}, []string{"E"})
	set.Methods = []java.MethodModel{
		bstm([]string{"E"}, "of", "Set<E>", bvp("elements", "E")),
	}

	hashSet := bcls("java.util.HashSet", java.KindClass, "Object",
		[]string{"Set<E>"}, []string{"E"})
	hashSet.Constructors = []java.MethodModel{bctor("HashSet")}

	mapIface := bcls("java.util.Map", java.KindInterface, "", nil, []string{"K", "V"})
	mapIface.Methods = []java.MethodModel{
		bm("get", "V", bp("key", "Object")),
		bm("put", "V", bp("key", "K"), bp("value", "V")),
		bm("remove", "V", bp("key", "Object")),
		bm("containsKey", "boolean", bp("key", "Object")),
		bm("containsValue", "boolean", bp("value", "Object")),
		bm("size", "int"),
		bm("isEmpty", "boolean"),
		bm("keySet", "Set<K>"),
		bm("values", "Collection<V>"),
		bm("entrySet", "Set<Map.Entry<K, V>>"),
		bm("getOrDefault", "V", bp("key", "Object"), bp("defaultValue", "V")),
		bstm([]string{"K", "V"}, "of", "Map<K, V>"),
	}

	entry := bcls("java.util.Map$Entry", java.KindInterface, "", nil, []string{"K", "V"})
	entry.Methods = []java.MethodModel{
		bm("getKey", "K"),
		bm("getValue", "V"),
	}

	hashMap := bcls("java.util.HashMap", java.KindClass, "Object",
		[]string{"Map<K, V>"}, []string{"K", "V"})
	hashMap.Constructors = []java.MethodModel{bctor("HashMap")}

	optional := bcls("java.util.Optional", java.KindClass, "Object", nil, []string{"T"})
	optional.Methods = []java.MethodModel{
		bstm([]string{"T"}, "of", "Optional<T>", bp("value", "T")),
		bstm([]string{"T"}, "empty", "Optional<T>"),
		bstm([]string{"T"}, "ofNullable", "Optional<T>", bp("value", "T")),
		bm("get", "T"),
		bm("isPresent", "boolean"),
		bm("isEmpty", "boolean"),
		bm("orElse", "T", bp("other", "T")),
		btm([]string{"U"}, "map", "Optional<U>",
			bp("mapper", "java.util.function.Function<? super T, ? extends U>")),
		bm("ifPresent", "void", bp("action", "java.util.function.Consumer<? super T>")),
	}

	arrays := bcls("java.util.Arrays", java.KindClass, "Object", nil, nil)
	arrays.Methods = []java.MethodModel{
		bstm([]string{"T"}, "asList", "List<T>", bvp("a", "T")),
		bstm([]string{"T"}, "stream", "java.util.stream.Stream<T>", bp("array", "T[]")),
		bsm("sort", "void", bp("a", "Object[]")),
		bsm("toString", "String", bp("a", "Object[]")),
		bstm([]string{"T"}, "copyOf", "T[]", bp("original", "T[]"), bp("newLength", "int")),
	}

	collections := bcls("java.util.Collections", java.KindClass, "Object", nil, nil)
	collections.Methods = []java.MethodModel{
		bstm([]string{"T"}, "emptyList", "List<T>"),
		bstm([]string{"T"}, "singletonList", "List<T>", bp("o", "T")),
		bstm([]string{"T"}, "sort", "void", bp("list", "List<T>")),
		bstm([]string{"T"}, "unmodifiableList", "List<T>", bp("list", "List<? extends T>")),
		bstm([]string{"T"}, "reverse", "void", bp("list", "List<?>")),
	}

	objects := bcls("java.util.Objects", java.KindClass, "Object", nil, nil)
	objects.Methods = []java.MethodModel{
		bstm([]string{"T"}, "requireNonNull", "T", bp("obj", "T")),
		bsm("equals", "boolean", bp("a", "Object"), bp("b", "Object")),
		bsm("hash", "int", bvp("values", "Object")),
		bsm("isNull", "boolean", bp("obj", "Object")),
		bsm("nonNull", "boolean", bp("obj", "Object")),
	}

	return []*java.ClassModel{
		iterator, collection, list, arrayList, set, hashSet,
		mapIface, entry, hashMap, optional, arrays, collections, objects,
	}
}

func builtinFunction() []*java.ClassModel {
	function := bcls("java.util.function.Function", java.KindInterface, "", nil, []string{"T", "R"})
	function.Methods = []java.MethodModel{bm("apply", "R", bp("t", "T"))}

	predicate := bcls("java.util.function.Predicate", java.KindInterface, "", nil, []string{"T"})
	predicate.Methods = []java.MethodModel{bm("test", "boolean", bp("t", "T"))}

	consumer := bcls("java.util.function.Consumer", java.KindInterface, "", nil, []string{"T"})
	consumer.Methods = []java.MethodModel{bm("accept", "void", bp("t", "T"))}

	supplier := bcls("java.util.function.Supplier", java.KindInterface, "", nil, []string{"T"})
	supplier.Methods = []java.MethodModel{bm("get", "T")}

	return []*java.ClassModel{function, predicate, consumer, supplier}
}

func builtinStream() []*java.ClassModel {
	stream := bcls("java.util.stream.Stream", java.KindInterface, "", nil, []string{"T"})
	stream.Methods = []java.MethodModel{
		bm("filter", "Stream<T>", bp("predicate", "java.util.function.Predicate<? super T>")),
		btm([]string{"R"}, "map", "Stream<R>",
			bp("mapper", "java.util.function.Function<? super T, ? extends R>")),
		btm([]string{"R", "A"}, "collect", "R",
			bp("collector", "Collector<? super T, A, R>")),
		bm("forEach", "void", bp("action", "java.util.function.Consumer<? super T>")),
		bm("count", "long"),
		bm("anyMatch", "boolean", bp("predicate", "java.util.function.Predicate<? super T>")),
		bm("allMatch", "boolean", bp("predicate", "java.util.function.Predicate<? super T>")),
		bm("findFirst", "java.util.Optional<T>"),
		bm("sorted", "Stream<T>"),
		bm("distinct", "Stream<T>"),
		bm("limit", "Stream<T>", bp("maxSize", "long")),
		bm("skip", "Stream<T>", bp("n", "long")),
		bm("toList", "java.util.List<T>"),
		bstm([]string{"T"}, "of", "Stream<T>", bvp("values", "T")),
	}

	collector := bcls("java.util.stream.Collector", java.KindInterface, "", nil, []string{"T", "A", "R"})

	collectors := bcls("java.util.stream.Collectors", java.KindClass, "Object", nil, nil)
	collectors.Methods = []java.MethodModel{
		bstm([]string{"T"}, "toList", "Collector<T, ?, java.util.List<T>>"),
		bsm("joining", "Collector<java.lang.CharSequence, ?, String>"),
	}

	return []*java.ClassModel{stream, collector, collectors}
}
