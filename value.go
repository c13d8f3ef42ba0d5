package nrbf

import "github.com/shopspring/decimal"

// Kind tags which field of a Value is meaningful. A plain interface{} sum
// type doesn't work here: Go's rune (used for Char) and int32 (used for
// Int32) are the same underlying type and would be indistinguishable by a
// dynamic type switch, so Value instead carries an explicit tag.
type Kind uint8

// Value kinds, one per .NET primitive plus Null, Object, and Array.
const (
	KindNull Kind = iota
	KindBoolean
	KindByte
	KindChar
	KindDecimal
	KindDouble
	KindInt16
	KindInt32
	KindInt64
	KindSByte
	KindSingle
	KindTimeSpan
	KindDateTime
	KindUInt16
	KindUInt32
	KindUInt64
	KindString
	KindObject
	KindArray
)

// Value is the resolved representation of one NRBF member, argument, return
// value, or array element: a .NET primitive, Null, a class instance
// (Object), or an Array of further Values.
type Value struct {
	Kind Kind

	Boolean  bool
	Byte     byte
	Char     rune
	Decimal  decimal.Decimal
	Double   float64
	Int16    int16
	Int32    int32
	Int64    int64
	SByte    int8
	Single   float32
	TimeSpan TimeSpan
	DateTime DateTime
	UInt16   uint16
	UInt32   uint32
	UInt64   uint64
	String   string
	Object   *Object
	Array    *Array
}

// Object is a resolved class instance: its fully qualified class name, the
// library it was declared in, and its members in declaration order.
// LibraryName is empty for SystemClassWithMembers[AndTypes] instances, which
// carry no library reference on the wire.
type Object struct {
	ClassName    string
	LibraryName  string
	MemberNames  []string
	MemberValues []Value
}

// Member looks up a member by name, returning ok=false if the object has no
// member with that name. When several members share the name, the last one
// wins.
func (o *Object) Member(name string) (Value, bool) {
	for i := len(o.MemberNames) - 1; i >= 0; i-- {
		if o.MemberNames[i] == name {
			return o.MemberValues[i], true
		}
	}
	return Value{}, false
}

// Array is a resolved .NET array: BinaryArray's single/rectangular/jagged
// shapes and the three ArraySingle* record types all resolve to this type,
// with multi-dimensional and jagged arrays represented as Arrays of Array
// Values (see foldArrayElements in parser.go).
type Array struct {
	ElemType BinaryType
	Elements []Value
}

// DateTimeKind mirrors System.DateTimeKind: whether a DateTime's ticks are
// relative to UTC, local time, or unspecified.
type DateTimeKind uint8

const (
	DateTimeUnspecified DateTimeKind = iota
	DateTimeUtc
	DateTimeLocal
)

// DateTime is a .NET DateTime: a tick count since 0001-01-01 packed with a
// DateTimeKind in the top two bits of the wire representation.
type DateTime struct {
	ticks int64
	kind  DateTimeKind
}

func (t DateTime) Ticks() int64      { return t.ticks }
func (t DateTime) Kind() DateTimeKind { return t.kind }

// TimeSpan is a .NET TimeSpan: a signed tick count (100-nanosecond units).
type TimeSpan struct {
	ticks int64
}

func (t TimeSpan) Value() int64 { return t.ticks }

func parseDateTime(d *decoder) (DateTime, error) {
	raw, err := d.u64()
	if err != nil {
		return DateTime{}, err
	}
	kind := DateTimeKind((raw >> 62) & 0x3)
	ticks := int64(raw & 0x3FFFFFFFFFFFFFFF)
	return DateTime{ticks: ticks, kind: kind}, nil
}

func parseTimeSpan(d *decoder) (TimeSpan, error) {
	ticks, err := d.i64()
	if err != nil {
		return TimeSpan{}, err
	}
	return TimeSpan{ticks: ticks}, nil
}

// parsePrimitiveValue decodes the wire representation for a given
// PrimitiveType, including String (a LengthPrefixedString) and Null (no
// bytes). Those two are only valid in ValueWithCode; MemberPrimitiveTyped
// and MemberPrimitiveUnTyped reject them before calling this function.
func parsePrimitiveValue(d *decoder, pt PrimitiveType) (Value, error) {
	switch pt {
	case PrimitiveBoolean:
		v, err := d.boolean()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBoolean, Boolean: v}, nil
	case PrimitiveByte:
		v, err := d.u8()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindByte, Byte: v}, nil
	case PrimitiveChar:
		v, err := d.char()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindChar, Char: v}, nil
	case PrimitiveDecimal:
		v, err := d.decimal()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDecimal, Decimal: v}, nil
	case PrimitiveDouble:
		v, err := d.f64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDouble, Double: v}, nil
	case PrimitiveInt16:
		v, err := d.i16()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt16, Int16: v}, nil
	case PrimitiveInt32:
		v, err := d.i32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt32, Int32: v}, nil
	case PrimitiveInt64:
		v, err := d.i64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt64, Int64: v}, nil
	case PrimitiveSByte:
		v, err := d.i8()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindSByte, SByte: v}, nil
	case PrimitiveSingle:
		v, err := d.f32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindSingle, Single: v}, nil
	case PrimitiveTimeSpan:
		v, err := parseTimeSpan(d)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTimeSpan, TimeSpan: v}, nil
	case PrimitiveDateTime:
		v, err := parseDateTime(d)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDateTime, DateTime: v}, nil
	case PrimitiveUInt16:
		v, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUInt16, UInt16: v}, nil
	case PrimitiveUInt32:
		v, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUInt32, UInt32: v}, nil
	case PrimitiveUInt64:
		v, err := d.u64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUInt64, UInt64: v}, nil
	case PrimitiveString:
		v, err := d.lengthPrefixedString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, String: v}, nil
	case PrimitiveNull:
		return Value{Kind: KindNull}, nil
	default:
		return Value{}, newError(d.offset(), ErrExpectedPrimitiveType)
	}
}
