package nrbf

import "testing"

func le32(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
}

func lpString(s string) []byte {
	return append(encodeLength7(uint32(len(s))), []byte(s)...)
}

func header(rootID, headerID int32) []byte {
	b := []byte{byte(RecordSerializedStreamHeader)}
	b = append(b, le32(rootID)...)
	b = append(b, le32(headerID)...)
	b = append(b, le32(1)...) // major
	b = append(b, le32(0)...) // minor
	return b
}

func binaryLibraryRecord(id int32, name string) []byte {
	b := []byte{byte(RecordBinaryLibrary)}
	b = append(b, le32(id)...)
	b = append(b, lpString(name)...)
	return b
}

func binaryObjectStringRecord(id int32, value string) []byte {
	b := []byte{byte(RecordBinaryObjectString)}
	b = append(b, le32(id)...)
	b = append(b, lpString(value)...)
	return b
}

func classInfoBytes(objectID int32, name string, members []string) []byte {
	b := le32(objectID)
	b = append(b, lpString(name)...)
	b = append(b, le32(int32(len(members)))...)
	for _, m := range members {
		b = append(b, lpString(m)...)
	}
	return b
}

func classWithMembersRecord(objectID int32, name string, members []string, libraryID int32) []byte {
	b := []byte{byte(RecordClassWithMembers)}
	b = append(b, classInfoBytes(objectID, name, members)...)
	b = append(b, le32(libraryID)...)
	return b
}

func systemClassWithMembersRecord(objectID int32, name string, members []string) []byte {
	b := []byte{byte(RecordSystemClassWithMembers)}
	b = append(b, classInfoBytes(objectID, name, members)...)
	return b
}

func memberReferenceRecord(idRef int32) []byte {
	b := []byte{byte(RecordMemberReference)}
	return append(b, le32(idRef)...)
}

func messageEndRecord() []byte {
	return []byte{byte(RecordMessageEnd)}
}

func TestParseRootString(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryObjectStringRecord(1, "hello")...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessageValue {
		t.Fatalf("expected MessageValue, got %v", msg.Kind)
	}
	if msg.Value.Kind != KindString || msg.Value.String != "hello" {
		t.Fatalf("got %+v", msg.Value)
	}
}

func TestParseRootClassWithMembers(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryLibraryRecord(10, "MyAssembly")...)
	data = append(data, classWithMembersRecord(1, "MyNamespace.MyClass", []string{"Name"}, 10)...)
	data = append(data, binaryObjectStringRecord(2, "Alice")...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj := msg.Value.Object
	if obj == nil {
		t.Fatalf("expected an object, got %+v", msg.Value)
	}
	if obj.ClassName != "MyNamespace.MyClass" || obj.LibraryName != "MyAssembly" {
		t.Fatalf("got %+v", obj)
	}
	v, ok := obj.Member("Name")
	if !ok || v.Kind != KindString || v.String != "Alice" {
		t.Fatalf("got member Name=%+v ok=%v", v, ok)
	}
}

func TestSystemClassHasNoLibraryName(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, systemClassWithMembersRecord(1, "System.Int32", []string{"m_value"})...)
	rec := []byte{byte(RecordMemberPrimitiveTyped), byte(PrimitiveInt32)}
	rec = append(rec, le32(7)...)
	data = append(data, rec...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj := msg.Value.Object
	if obj == nil || obj.ClassName != "System.Int32" || obj.LibraryName != "" {
		t.Fatalf("got %+v", obj)
	}
}

func TestRootIDZeroIsNull(t *testing.T) {
	data := header(0, -1)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Value.Kind != KindNull {
		t.Fatalf("got %+v", msg.Value)
	}
}

func TestRootNeedNotBeFirstReferenceable(t *testing.T) {
	// The root (id 2) appears after an unrelated sibling record (id 1); the
	// driver must not assume positional ordering.
	data := append([]byte{}, header(2, -1)...)
	data = append(data, binaryObjectStringRecord(1, "sibling")...)
	data = append(data, binaryObjectStringRecord(2, "root")...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Value.Kind != KindString || msg.Value.String != "root" {
		t.Fatalf("got %+v", msg.Value)
	}
}

func TestUnresolvableMemberReference(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryLibraryRecord(10, "MyAssembly")...)
	data = append(data, classWithMembersRecord(1, "MyNamespace.MyClass", []string{"X"}, 10)...)
	data = append(data, memberReferenceRecord(99)...)
	data = append(data, binaryObjectStringRecord(50, "decoy")...)
	data = append(data, messageEndRecord()...)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected an unresolvable member reference error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrUnresolvableMemberReference {
		t.Fatalf("got %v", err)
	}
}

func TestForwardMemberReferenceResolves(t *testing.T) {
	// Member X is a forward reference to the BinaryObjectString that comes
	// immediately after it, exactly as a real NRBF writer would emit it.
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryLibraryRecord(10, "MyAssembly")...)
	data = append(data, classWithMembersRecord(1, "MyNamespace.MyClass", []string{"X"}, 10)...)
	data = append(data, memberReferenceRecord(2)...)
	data = append(data, binaryObjectStringRecord(2, "resolved")...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := msg.Value.Object.Member("X")
	if !ok || v.Kind != KindString || v.String != "resolved" {
		t.Fatalf("got %+v", v)
	}
}

func TestDuplicateObjectIDRejected(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryObjectStringRecord(1, "a")...)
	data = append(data, binaryObjectStringRecord(1, "b")...)
	data = append(data, messageEndRecord()...)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected duplicate object id error")
	}
}

func TestTrailingDataRejected(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryObjectStringRecord(1, "hello")...)
	data = append(data, messageEndRecord()...)
	data = append(data, 0xAA)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected trailing data error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrTrailingData {
		t.Fatalf("got %v", err)
	}
}

func TestInvalidMajorVersionRejected(t *testing.T) {
	data := []byte{byte(RecordSerializedStreamHeader)}
	data = append(data, le32(1)...)
	data = append(data, le32(-1)...)
	data = append(data, le32(2)...) // bad major version
	data = append(data, le32(0)...)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected invalid major version error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrInvalidMajorVersion {
		t.Fatalf("got %v", err)
	}
}

func TestArraySinglePrimitive(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	rec := []byte{byte(RecordArraySinglePrimitive)}
	rec = append(rec, le32(1)...)             // object id
	rec = append(rec, le32(3)...)             // length
	rec = append(rec, byte(PrimitiveInt32))   // element type
	rec = append(rec, le32(10)...)
	rec = append(rec, le32(20)...)
	rec = append(rec, le32(30)...)
	data = append(data, rec...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := msg.Value.Array
	if arr == nil || len(arr.Elements) != 3 {
		t.Fatalf("got %+v", msg.Value)
	}
	if arr.Elements[1].Int32 != 20 {
		t.Fatalf("got %+v", arr.Elements)
	}
}

func TestMethodCallRoundTrip(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	rec := []byte{byte(RecordMethodCall)}
	rec = append(rec, le32(int32(flagNoArgs|flagNoContext))...)
	rec = append(rec, byte(PrimitiveString))
	rec = append(rec, lpString("Foo")...)
	rec = append(rec, byte(PrimitiveString))
	rec = append(rec, lpString("Bar, Baz")...)
	data = append(data, rec...)
	data = append(data, messageEndRecord()...)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessageMethodCall {
		t.Fatalf("expected MessageMethodCall, got %v", msg.Kind)
	}
	if msg.MethodCall.MethodName != "Foo" || msg.MethodCall.TypeName != "Bar, Baz" {
		t.Fatalf("got %+v", msg.MethodCall)
	}
	if msg.MethodCall.Args != nil {
		t.Fatalf("expected no args, got %+v", msg.MethodCall.Args)
	}
}
