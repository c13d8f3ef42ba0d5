package nrbf

// RecordType is the leading tag byte of every NRBF record (2.1.2.1
// RecordTypeEnumeration).
type RecordType uint8

// Record type tags.
const (
	RecordSerializedStreamHeader         RecordType = 0
	RecordClassWithID                    RecordType = 1
	RecordSystemClassWithMembers         RecordType = 2
	RecordClassWithMembers               RecordType = 3
	RecordSystemClassWithMembersAndTypes RecordType = 4
	RecordClassWithMembersAndTypes       RecordType = 5
	RecordBinaryObjectString             RecordType = 6
	RecordBinaryArray                    RecordType = 7
	RecordMemberPrimitiveTyped           RecordType = 8
	RecordMemberReference                RecordType = 9
	RecordObjectNull                     RecordType = 10
	RecordMessageEnd                     RecordType = 11
	RecordBinaryLibrary                  RecordType = 12
	RecordObjectNullMultiple256          RecordType = 13
	RecordObjectNullMultiple             RecordType = 14
	RecordArraySinglePrimitive           RecordType = 15
	RecordArraySingleObject              RecordType = 16
	RecordArraySingleString              RecordType = 17
	RecordMethodCall                     RecordType = 21
	RecordMethodReturn                   RecordType = 22
)

func (rt RecordType) description() string {
	switch rt {
	case RecordSerializedStreamHeader:
		return "a SerializedStreamHeader"
	case RecordClassWithID:
		return "a ClassWithId"
	case RecordSystemClassWithMembers:
		return "a SystemClassWithMembers"
	case RecordClassWithMembers:
		return "a ClassWithMembers"
	case RecordSystemClassWithMembersAndTypes:
		return "a SystemClassWithMembersAndTypes"
	case RecordClassWithMembersAndTypes:
		return "a ClassWithMembersAndTypes"
	case RecordBinaryObjectString:
		return "a BinaryObjectString"
	case RecordBinaryArray:
		return "a BinaryArray"
	case RecordMemberPrimitiveTyped:
		return "a MemberPrimitiveTyped"
	case RecordMemberReference:
		return "a MemberReference"
	case RecordObjectNull:
		return "an ObjectNull"
	case RecordMessageEnd:
		return "a MessageEnd"
	case RecordBinaryLibrary:
		return "a BinaryLibrary"
	case RecordObjectNullMultiple256:
		return "an ObjectNullMultiple256"
	case RecordObjectNullMultiple:
		return "an ObjectNullMultiple"
	case RecordArraySinglePrimitive:
		return "an ArraySinglePrimitive"
	case RecordArraySingleObject:
		return "an ArraySingleObject"
	case RecordArraySingleString:
		return "an ArraySingleString"
	case RecordMethodCall:
		return "a MethodCall"
	case RecordMethodReturn:
		return "a MethodReturn"
	default:
		return "an unknown record"
	}
}

// PrimitiveType is the 2.1.2.3 PrimitiveTypeEnumeration.
type PrimitiveType uint8

// Primitive type tags.
const (
	PrimitiveBoolean  PrimitiveType = 1
	PrimitiveByte     PrimitiveType = 2
	PrimitiveChar     PrimitiveType = 3
	PrimitiveDecimal  PrimitiveType = 5
	PrimitiveDouble   PrimitiveType = 6
	PrimitiveInt16    PrimitiveType = 7
	PrimitiveInt32    PrimitiveType = 8
	PrimitiveInt64    PrimitiveType = 9
	PrimitiveSByte    PrimitiveType = 10
	PrimitiveSingle   PrimitiveType = 11
	PrimitiveTimeSpan PrimitiveType = 12
	PrimitiveDateTime PrimitiveType = 13
	PrimitiveUInt16   PrimitiveType = 14
	PrimitiveUInt32   PrimitiveType = 15
	PrimitiveUInt64   PrimitiveType = 16
	PrimitiveNull     PrimitiveType = 17
	PrimitiveString   PrimitiveType = 18
)

func (pt PrimitiveType) description() string {
	switch pt {
	case PrimitiveBoolean:
		return "a BOOLEAN"
	case PrimitiveByte:
		return "a BYTE"
	case PrimitiveChar:
		return "a CHAR"
	case PrimitiveDecimal:
		return "a Decimal"
	case PrimitiveDouble:
		return "a DOUBLE"
	case PrimitiveInt16:
		return "an INT16"
	case PrimitiveInt32:
		return "an INT32"
	case PrimitiveInt64:
		return "an INT64"
	case PrimitiveSByte:
		return "an INT8"
	case PrimitiveSingle:
		return "a SINGLE"
	case PrimitiveTimeSpan:
		return "a TimeSpan"
	case PrimitiveDateTime:
		return "a DateTime"
	case PrimitiveUInt16:
		return "a UINT16"
	case PrimitiveUInt32:
		return "a UINT32"
	case PrimitiveUInt64:
		return "a UINT64"
	case PrimitiveNull:
		return "a NULL"
	case PrimitiveString:
		return "a LengthPrefixedString"
	default:
		return "an unknown primitive"
	}
}

// BinaryType is the 2.1.2.2 BinaryTypeEnumeration.
type BinaryType uint8

// Binary type tags.
const (
	BinaryPrimitive      BinaryType = 0
	BinaryString         BinaryType = 1
	BinaryObject         BinaryType = 2
	BinarySystemClass    BinaryType = 3
	BinaryClass          BinaryType = 4
	BinaryObjectArray    BinaryType = 5
	BinaryStringArray    BinaryType = 6
	BinaryPrimitiveArray BinaryType = 7
)

// BinaryArrayType is the 2.4.1.1 BinaryArrayTypeEnumeration.
type BinaryArrayType uint8

// Binary array type tags.
const (
	ArraySingle            BinaryArrayType = 0
	ArrayJagged            BinaryArrayType = 1
	ArrayRectangular       BinaryArrayType = 2
	ArraySingleOffset      BinaryArrayType = 3
	ArrayJaggedOffset      BinaryArrayType = 4
	ArrayRectangularOffset BinaryArrayType = 5
)

func (t BinaryArrayType) hasOffsets() bool {
	switch t {
	case ArraySingleOffset, ArrayJaggedOffset, ArrayRectangularOffset:
		return true
	default:
		return false
	}
}
