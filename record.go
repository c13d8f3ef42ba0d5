package nrbf

// This file implements the per-record parse functions of MS-NRBF §2: each
// record function consumes exactly one record, starting with its leading
// RecordType tag (checked with decoder.expectRecordType, which leaves the
// cursor in place on a mismatch), and returns a plain Go value. Resolution of
// cross-record references (MemberReference, ClassWithId's MetadataId,
// BinaryLibrary ids) lives in parser.go.

// serializationHeader is 2.6.1 SerializedStreamHeader.
type serializationHeader struct {
	RootID       int32
	HeaderID     int32
	MajorVersion int32
	MinorVersion int32
}

func parseSerializationHeader(d *decoder) (serializationHeader, error) {
	if err := d.expectRecordType(RecordSerializedStreamHeader); err != nil {
		return serializationHeader{}, err
	}
	rootOffset := d.offset()
	rootID, err := d.i32()
	if err != nil {
		return serializationHeader{}, err
	}
	if rootID < 0 {
		return serializationHeader{}, newError(rootOffset, ErrInvalidRootID)
	}
	headerID, err := d.i32()
	if err != nil {
		return serializationHeader{}, err
	}
	majorOffset := d.offset()
	major, err := d.i32()
	if err != nil {
		return serializationHeader{}, err
	}
	if major != 1 {
		return serializationHeader{}, newError(majorOffset, ErrInvalidMajorVersion)
	}
	minorOffset := d.offset()
	minor, err := d.i32()
	if err != nil {
		return serializationHeader{}, err
	}
	if minor != 0 {
		return serializationHeader{}, newError(minorOffset, ErrInvalidMinorVersion)
	}
	return serializationHeader{RootID: rootID, HeaderID: headerID, MajorVersion: major, MinorVersion: minor}, nil
}

// binaryLibrary is 2.6.2 BinaryLibrary.
type binaryLibrary struct {
	LibraryID   uint32
	LibraryName string
}

func parseBinaryLibrary(d *decoder) (binaryLibrary, error) {
	if err := d.expectRecordType(RecordBinaryLibrary); err != nil {
		return binaryLibrary{}, err
	}
	id, err := d.libraryID()
	if err != nil {
		return binaryLibrary{}, err
	}
	name, err := d.lengthPrefixedString()
	if err != nil {
		return binaryLibrary{}, err
	}
	return binaryLibrary{LibraryID: id, LibraryName: name}, nil
}

// binaryObjectString is 2.5.7 BinaryObjectString.
type binaryObjectString struct {
	ObjectID uint32
	Value    string
}

func parseBinaryObjectString(d *decoder) (binaryObjectString, error) {
	if err := d.expectRecordType(RecordBinaryObjectString); err != nil {
		return binaryObjectString{}, err
	}
	id, err := d.objectID()
	if err != nil {
		return binaryObjectString{}, err
	}
	s, err := d.lengthPrefixedString()
	if err != nil {
		return binaryObjectString{}, err
	}
	return binaryObjectString{ObjectID: id, Value: s}, nil
}

// classWithId is 2.3.2.1 ClassWithId: an instance of a class already
// described by an earlier *WithMembers* record, identified by that record's
// object id (here called MetadataID since it indexes the classes table
// rather than allocating a new class description).
type classWithId struct {
	ObjectID   uint32
	MetadataID uint32
}

func parseClassWithId(d *decoder) (classWithId, error) {
	if err := d.expectRecordType(RecordClassWithID); err != nil {
		return classWithId{}, err
	}
	id, err := d.objectID()
	if err != nil {
		return classWithId{}, err
	}
	metaOffset := d.offset()
	meta, err := d.i32()
	if err != nil {
		return classWithId{}, err
	}
	if meta <= 0 {
		return classWithId{}, newError(metaOffset, ErrInvalidMetadataID)
	}
	if uint32(meta) == id {
		return classWithId{}, newError(metaOffset, ErrInvalidMetadataID)
	}
	return classWithId{ObjectID: id, MetadataID: uint32(meta)}, nil
}

// classWithMembers is 2.3.2.2 ClassWithMembers.
type classWithMembers struct {
	ClassInfo ClassInfo
	LibraryID uint32
}

func parseClassWithMembers(d *decoder) (classWithMembers, error) {
	if err := d.expectRecordType(RecordClassWithMembers); err != nil {
		return classWithMembers{}, err
	}
	ci, err := parseClassInfo(d)
	if err != nil {
		return classWithMembers{}, err
	}
	libID, err := d.libraryID()
	if err != nil {
		return classWithMembers{}, err
	}
	return classWithMembers{ClassInfo: ci, LibraryID: libID}, nil
}

// classWithMembersAndTypes is 2.3.2.3 ClassWithMembersAndTypes.
type classWithMembersAndTypes struct {
	ClassInfo  ClassInfo
	MemberInfo MemberTypeInfo
	LibraryID  uint32
}

func parseClassWithMembersAndTypes(d *decoder) (classWithMembersAndTypes, error) {
	if err := d.expectRecordType(RecordClassWithMembersAndTypes); err != nil {
		return classWithMembersAndTypes{}, err
	}
	ci, err := parseClassInfo(d)
	if err != nil {
		return classWithMembersAndTypes{}, err
	}
	mi, err := parseMemberTypeInfo(d, len(ci.MemberNames))
	if err != nil {
		return classWithMembersAndTypes{}, err
	}
	libID, err := d.libraryID()
	if err != nil {
		return classWithMembersAndTypes{}, err
	}
	return classWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi, LibraryID: libID}, nil
}

// systemClassWithMembers is 2.3.2.4 SystemClassWithMembers: like
// ClassWithMembers but the class belongs to the implicit mscorlib library,
// so no LibraryID field follows.
type systemClassWithMembers struct {
	ClassInfo ClassInfo
}

func parseSystemClassWithMembers(d *decoder) (systemClassWithMembers, error) {
	if err := d.expectRecordType(RecordSystemClassWithMembers); err != nil {
		return systemClassWithMembers{}, err
	}
	ci, err := parseClassInfo(d)
	if err != nil {
		return systemClassWithMembers{}, err
	}
	return systemClassWithMembers{ClassInfo: ci}, nil
}

// systemClassWithMembersAndTypes is 2.3.2.5 SystemClassWithMembersAndTypes.
type systemClassWithMembersAndTypes struct {
	ClassInfo  ClassInfo
	MemberInfo MemberTypeInfo
}

func parseSystemClassWithMembersAndTypes(d *decoder) (systemClassWithMembersAndTypes, error) {
	if err := d.expectRecordType(RecordSystemClassWithMembersAndTypes); err != nil {
		return systemClassWithMembersAndTypes{}, err
	}
	ci, err := parseClassInfo(d)
	if err != nil {
		return systemClassWithMembersAndTypes{}, err
	}
	mi, err := parseMemberTypeInfo(d, len(ci.MemberNames))
	if err != nil {
		return systemClassWithMembersAndTypes{}, err
	}
	return systemClassWithMembersAndTypes{ClassInfo: ci, MemberInfo: mi}, nil
}

// memberReference is 2.5.3 MemberReference: a forward pointer to an object
// that is, or will be, referenceable elsewhere in the stream.
type memberReference struct {
	IdRef uint32
}

func parseMemberReference(d *decoder) (memberReference, error) {
	if err := d.expectRecordType(RecordMemberReference); err != nil {
		return memberReference{}, err
	}
	id, err := d.objectID()
	if err != nil {
		return memberReference{}, err
	}
	return memberReference{IdRef: id}, nil
}

func parseObjectNull(d *decoder) error {
	return d.expectRecordType(RecordObjectNull)
}

// parseObjectNullMultiple256 is 2.5.5 ObjectNullMultiple256: NullCount is a
// single byte, always in 1..=255.
func parseObjectNullMultiple256(d *decoder) (int, error) {
	if err := d.expectRecordType(RecordObjectNullMultiple256); err != nil {
		return 0, err
	}
	errOffset := d.offset()
	n, err := d.u8()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, newError(errOffset, ErrInvalidNullCount)
	}
	return int(n), nil
}

// parseObjectNullMultiple is 2.5.6 ObjectNullMultiple: NullCount is a 4-byte
// count, must be strictly positive.
func parseObjectNullMultiple(d *decoder) (int, error) {
	if err := d.expectRecordType(RecordObjectNullMultiple); err != nil {
		return 0, err
	}
	errOffset := d.offset()
	n, err := d.i32()
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, newError(errOffset, ErrInvalidNullCount)
	}
	return int(n), nil
}

func parseMessageEnd(d *decoder) error {
	return d.expectRecordType(RecordMessageEnd)
}

// binaryArray is 2.4.3.1 BinaryArray.
type binaryArray struct {
	Info       ArrayInfo
	Type       BinaryArrayType
	Rank       int
	Lengths    []int
	LowerBound []int32
	ElemType   BinaryType
	ExtraInfo  AdditionalTypeInfo
}

func parseBinaryArray(d *decoder) (binaryArray, error) {
	if err := d.expectRecordType(RecordBinaryArray); err != nil {
		return binaryArray{}, err
	}
	id, err := d.objectID()
	if err != nil {
		return binaryArray{}, err
	}
	arrType, err := d.binaryArrayType()
	if err != nil {
		return binaryArray{}, err
	}
	rank, err := d.length()
	if err != nil {
		return binaryArray{}, err
	}
	if rank == 0 {
		return binaryArray{}, newError(d.offset(), ErrInvalidLength)
	}
	lengths := make([]int, rank)
	for i := 0; i < rank; i++ {
		n, err := d.length()
		if err != nil {
			return binaryArray{}, err
		}
		lengths[i] = n
	}
	var lower []int32
	if arrType.hasOffsets() {
		lower = make([]int32, rank)
		for i := 0; i < rank; i++ {
			v, err := d.i32()
			if err != nil {
				return binaryArray{}, err
			}
			lower[i] = v
		}
	}
	elemType, err := d.binaryType()
	if err != nil {
		return binaryArray{}, err
	}
	extra, err := parseAdditionalTypeInfo(d, elemType)
	if err != nil {
		return binaryArray{}, err
	}
	total := 1
	for _, n := range lengths {
		if n != 0 && total > int(^uint(0)>>1)/n {
			return binaryArray{}, newError(d.offset(), ErrInvalidLength)
		}
		total *= n
	}
	return binaryArray{
		Info:       ArrayInfo{ObjectID: id, Length: total},
		Type:       arrType,
		Rank:       rank,
		Lengths:    lengths,
		LowerBound: lower,
		ElemType:   elemType,
		ExtraInfo:  extra,
	}, nil
}

func parseArraySingleObject(d *decoder) (ArrayInfo, error) {
	if err := d.expectRecordType(RecordArraySingleObject); err != nil {
		return ArrayInfo{}, err
	}
	return parseArrayInfo(d)
}

func parseArraySingleString(d *decoder) (ArrayInfo, error) {
	if err := d.expectRecordType(RecordArraySingleString); err != nil {
		return ArrayInfo{}, err
	}
	return parseArrayInfo(d)
}

// arraySinglePrimitive is 2.4.3.3 ArraySinglePrimitive.
type arraySinglePrimitive struct {
	Info      ArrayInfo
	ElemType  PrimitiveType
}

func parseArraySinglePrimitive(d *decoder) (arraySinglePrimitive, error) {
	if err := d.expectRecordType(RecordArraySinglePrimitive); err != nil {
		return arraySinglePrimitive{}, err
	}
	info, err := parseArrayInfo(d)
	if err != nil {
		return arraySinglePrimitive{}, err
	}
	pt, err := d.primitiveType()
	if err != nil {
		return arraySinglePrimitive{}, err
	}
	return arraySinglePrimitive{Info: info, ElemType: pt}, nil
}

// memberPrimitiveTyped is 2.5.1 MemberPrimitiveTyped: a self-tagged
// primitive value.
func parseMemberPrimitiveTyped(d *decoder) (Value, error) {
	if err := d.expectRecordType(RecordMemberPrimitiveTyped); err != nil {
		return Value{}, err
	}
	errOffset := d.offset()
	pt, err := d.primitiveType()
	if err != nil {
		return Value{}, err
	}
	if pt == PrimitiveNull || pt == PrimitiveString {
		return Value{}, newError(errOffset, ErrExpectedPrimitiveType)
	}
	return parsePrimitiveValue(d, pt)
}

// parseMemberPrimitiveUnTyped decodes 2.5.2 MemberPrimitiveUnTyped: the
// PrimitiveType is supplied by the surrounding MemberTypeInfo rather than
// re-tagged in the stream. Null and String are rejected.
func parseMemberPrimitiveUnTyped(d *decoder, pt PrimitiveType) (Value, error) {
	if pt == PrimitiveNull || pt == PrimitiveString {
		return Value{}, newError(d.offset(), ErrExpectedPrimitiveType)
	}
	return parsePrimitiveValue(d, pt)
}

// valueWithCode is 2.2.2.1 ValueWithCode: a self-tagged primitive or Null
// value used in method call/return argument and return-value slots.
func parseValueWithCode(d *decoder) (Value, error) {
	pt, err := d.primitiveType()
	if err != nil {
		return Value{}, err
	}
	if pt == PrimitiveNull {
		return Value{Kind: KindNull}, nil
	}
	return parsePrimitiveValue(d, pt)
}

// stringValueWithCode is 2.2.2.2 StringValueWithCode: a ValueWithCode whose
// PrimitiveType is always String.
func parseStringValueWithCode(d *decoder) (string, error) {
	errOffset := d.offset()
	pt, err := d.primitiveType()
	if err != nil {
		return "", err
	}
	if pt != PrimitiveString {
		return "", newExpectedPrimitiveError(errOffset, PrimitiveString)
	}
	return d.lengthPrefixedString()
}

// arrayOfValueWithCode is 2.2.2.3 ArrayOfValueWithCode.
func parseArrayOfValueWithCode(d *decoder) ([]Value, error) {
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	vals := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := parseValueWithCode(d)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
