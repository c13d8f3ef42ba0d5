package nrbf

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// decoder is a boundary-checked little-endian cursor over an NRBF byte
// buffer, in the spirit of the bounds-checked ReadUint32/ReadUint16/etc.
// helpers used elsewhere for binary container formats: every read reports
// exactly how many bytes it needs and fails cleanly short of the end of the
// buffer instead of panicking.
type decoder struct {
	data []byte
	pos  int
}

func newDecoder(data []byte) *decoder {
	return &decoder{data: data}
}

func (d *decoder) offset() int {
	return d.pos
}

func (d *decoder) remaining() int {
	return len(d.data) - d.pos
}

func (d *decoder) atEOF() bool {
	return d.remaining() == 0
}

func (d *decoder) require(n int) error {
	if d.remaining() < n {
		return newError(d.pos, ErrEof)
	}
	return nil
}

// peekByte returns the next byte without advancing the cursor. The second
// return value is false at end of input.
func (d *decoder) peekByte() (byte, bool) {
	if d.atEOF() {
		return 0, false
	}
	return d.data[d.pos], true
}

func (d *decoder) u8() (byte, error) {
	if err := d.require(1); err != nil {
		return 0, err
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) i8() (int8, error) {
	b, err := d.u8()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

func (d *decoder) u16() (uint16, error) {
	if err := d.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) i16() (int16, error) {
	v, err := d.u16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) i32() (int32, error) {
	v, err := d.u32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) i64() (int64, error) {
	v, err := d.u64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func (d *decoder) f32() (float32, error) {
	v, err := d.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (d *decoder) f64() (float64, error) {
	v, err := d.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (d *decoder) boolean() (bool, error) {
	errOffset := d.pos
	b, err := d.u8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newExpectedPrimitiveError(errOffset, PrimitiveBoolean)
	}
}

// char decodes a 2.1.1.1 Char: a variable 1/2/3/4-byte little-endian value
// interpreted as a Unicode scalar, trying the narrowest width first and
// accepting the first width whose value is a valid scalar.
func (d *decoder) char() (rune, error) {
	errOffset := d.pos
	if d.remaining() >= 1 {
		if r, ok := validScalar(uint32(d.data[d.pos])); ok {
			d.pos++
			return r, nil
		}
	}
	if d.remaining() >= 2 {
		v := uint32(d.data[d.pos]) | uint32(d.data[d.pos+1])<<8
		if r, ok := validScalar(v); ok {
			d.pos += 2
			return r, nil
		}
	}
	if d.remaining() >= 3 {
		v := uint32(d.data[d.pos]) | uint32(d.data[d.pos+1])<<8 | uint32(d.data[d.pos+2])<<16
		if r, ok := validScalar(v); ok {
			d.pos += 3
			return r, nil
		}
	}
	if d.remaining() >= 4 {
		v := binary.LittleEndian.Uint32(d.data[d.pos : d.pos+4])
		if r, ok := validScalar(v); ok {
			d.pos += 4
			return r, nil
		}
	}
	return 0, newExpectedPrimitiveError(errOffset, PrimitiveChar)
}

func validScalar(v uint32) (rune, bool) {
	if v > utf8.MaxRune {
		return 0, false
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

// length7 decodes the 7-bit length prefix used only by LengthPrefixedString:
// up to 5 bytes, low 7 bits per byte contribute (low byte first), the high
// bit is a continuation flag, and the 5th byte has only its low 3 bits
// valid (top 5 bits must be zero), for a maximum value of 2^31-1.
func (d *decoder) length7() (uint32, error) {
	errOffset := d.pos
	var result uint32
	for i := 0; i < 5; i++ {
		b, err := d.u8()
		if err != nil {
			return 0, err
		}
		if i < 4 {
			result |= uint32(b&0x7F) << (7 * uint(i))
			if b&0x80 == 0 {
				return result, nil
			}
			continue
		}
		if b&0xF8 != 0 {
			return 0, newExpectedPrimitiveError(errOffset, PrimitiveString)
		}
		result |= uint32(b&0x07) << 28
		return result, nil
	}
	return result, nil
}

func (d *decoder) lengthPrefixedString() (string, error) {
	errOffset := d.pos
	n, err := d.length7()
	if err != nil {
		return "", newExpectedPrimitiveError(errOffset, PrimitiveString)
	}
	if err := d.require(int(n)); err != nil {
		return "", newExpectedPrimitiveError(errOffset, PrimitiveString)
	}
	b := d.data[d.pos : d.pos+int(n)]
	if !utf8.Valid(b) {
		return "", newExpectedPrimitiveError(errOffset, PrimitiveString)
	}
	s := string(b)
	d.pos += int(n)
	return s, nil
}

// decimal decodes a Decimal: a LengthPrefixedString whose content is the
// decimal's canonical textual form, preserving scale.
func (d *decoder) decimal() (decimal.Decimal, error) {
	errOffset := d.pos
	s, err := d.lengthPrefixedString()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, newExpectedPrimitiveError(errOffset, PrimitiveDecimal)
	}
	return v, nil
}

// length decodes a non-negative 4-byte count field (ArrayInfo.length,
// BinaryArray.rank/lengths, ClassInfo's member count, args counts). Unlike
// length7 this is a plain signed 32-bit integer that must not be negative.
func (d *decoder) length() (int, error) {
	errOffset := d.pos
	v, err := d.i32()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, newError(errOffset, ErrInvalidLength)
	}
	return int(v), nil
}

// objectID decodes a non-zero positive object id.
func (d *decoder) objectID() (uint32, error) {
	errOffset := d.pos
	v, err := d.i32()
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, newError(errOffset, ErrInvalidObjectID)
	}
	return uint32(v), nil
}

// libraryID decodes a non-zero positive library id.
func (d *decoder) libraryID() (uint32, error) {
	errOffset := d.pos
	v, err := d.i32()
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, newError(errOffset, ErrInvalidLibraryID)
	}
	return uint32(v), nil
}

// expectRecordType consumes one tag byte, failing ErrExpectedRecordType on
// mismatch. Because every record's first byte is a unique RecordType tag,
// callers that need lookahead use peekByte first instead of backtracking.
func (d *decoder) expectRecordType(rt RecordType) error {
	errOffset := d.pos
	b, err := d.u8()
	if err != nil {
		return err
	}
	if b != byte(rt) {
		d.pos = errOffset
		return newExpectedRecordTypeError(errOffset, rt)
	}
	return nil
}

func (d *decoder) primitiveType() (PrimitiveType, error) {
	errOffset := d.pos
	b, err := d.u8()
	if err != nil {
		return 0, err
	}
	switch PrimitiveType(b) {
	case PrimitiveBoolean, PrimitiveByte, PrimitiveChar, PrimitiveDecimal, PrimitiveDouble,
		PrimitiveInt16, PrimitiveInt32, PrimitiveInt64, PrimitiveSByte, PrimitiveSingle,
		PrimitiveTimeSpan, PrimitiveDateTime, PrimitiveUInt16, PrimitiveUInt32, PrimitiveUInt64,
		PrimitiveNull, PrimitiveString:
		return PrimitiveType(b), nil
	default:
		d.pos = errOffset
		return 0, newError(errOffset, ErrExpectedPrimitiveType)
	}
}

func (d *decoder) binaryType() (BinaryType, error) {
	errOffset := d.pos
	b, err := d.u8()
	if err != nil {
		return 0, err
	}
	if b > byte(BinaryPrimitiveArray) {
		d.pos = errOffset
		return 0, newError(errOffset, ErrExpectedBinaryType)
	}
	return BinaryType(b), nil
}

func (d *decoder) binaryArrayType() (BinaryArrayType, error) {
	errOffset := d.pos
	b, err := d.u8()
	if err != nil {
		return 0, err
	}
	if b > byte(ArrayRectangularOffset) {
		d.pos = errOffset
		return 0, newError(errOffset, ErrExpectedBinaryArrayType)
	}
	return BinaryArrayType(b), nil
}
