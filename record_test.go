package nrbf

import "testing"

func TestParseClassWithIdRejectsNonPositiveMetadataID(t *testing.T) {
	data := []byte{byte(RecordClassWithID)}
	data = append(data, le32(1)...) // object id
	data = append(data, le32(0)...) // metadata id, invalid
	d := newDecoder(data)
	_, err := parseClassWithId(d)
	if err == nil {
		t.Fatal("expected an error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrInvalidMetadataID {
		t.Fatalf("got %v", err)
	}
}

func TestParseClassWithIdRejectsMetadataEqualToObjectID(t *testing.T) {
	data := []byte{byte(RecordClassWithID)}
	data = append(data, le32(5)...) // object id
	data = append(data, le32(5)...) // metadata id, same as object id
	d := newDecoder(data)
	_, err := parseClassWithId(d)
	if err == nil {
		t.Fatal("expected an error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrInvalidMetadataID {
		t.Fatalf("got %v", err)
	}
}

func TestParseObjectNullMultiple256RejectsZero(t *testing.T) {
	data := []byte{byte(RecordObjectNullMultiple256), 0}
	d := newDecoder(data)
	_, err := parseObjectNullMultiple256(d)
	if err == nil {
		t.Fatal("expected an error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrInvalidNullCount {
		t.Fatalf("got %v", err)
	}
}

func TestParseObjectNullMultipleRejectsZero(t *testing.T) {
	data := append([]byte{byte(RecordObjectNullMultiple)}, le32(0)...)
	d := newDecoder(data)
	_, err := parseObjectNullMultiple(d)
	if err == nil {
		t.Fatal("expected an error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrInvalidNullCount {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicateLibraryIDRejected(t *testing.T) {
	data := append([]byte{}, header(1, -1)...)
	data = append(data, binaryLibraryRecord(10, "One")...)
	data = append(data, binaryLibraryRecord(10, "Two")...)
	data = append(data, binaryObjectStringRecord(1, "x")...)
	data = append(data, messageEndRecord()...)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected a duplicate library id error")
	}
	nrbfErr, ok := err.(*Error)
	if !ok || nrbfErr.Kind != ErrDuplicateLibraryID {
		t.Fatalf("got %v", err)
	}
}

func TestParseClassInfoRoundTrip(t *testing.T) {
	data := classInfoBytes(7, "Namespace.Type", []string{"A", "B", "C"})
	d := newDecoder(data)
	ci, err := parseClassInfo(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ci.ObjectID != 7 || ci.Name != "Namespace.Type" {
		t.Fatalf("got %+v", ci)
	}
	if len(ci.MemberNames) != 3 || ci.MemberNames[2] != "C" {
		t.Fatalf("got %+v", ci.MemberNames)
	}
}

func TestParseArrayInfoRoundTrip(t *testing.T) {
	data := append(le32(5), le32(42)...)
	d := newDecoder(data)
	ai, err := parseArrayInfo(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ai.ObjectID != 5 || ai.Length != 42 {
		t.Fatalf("got %+v", ai)
	}
}
