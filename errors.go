// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import "fmt"

// ErrorKind classifies why a parse failed.
type ErrorKind uint8

// Error kinds, one per way a .NET Remoting Binary Format stream can be
// malformed.
const (
	ErrEof ErrorKind = iota
	ErrTrailingData
	ErrUnresolvableMemberReference
	ErrInvalidCallArrayID
	ErrMissingRootObject
	ErrInvalidNullCount
	ErrInvalidObjectID
	ErrDuplicateObjectID
	ErrInvalidLength
	ErrInvalidMajorVersion
	ErrInvalidMinorVersion
	ErrInvalidRootID
	ErrMissingMetadataID
	ErrInvalidMetadataID
	ErrInvalidArgs
	ErrUnexpectedClass
	ErrExpectedBinaryType
	ErrExpectedBinaryArrayType
	ErrMissingLibraryID
	ErrInvalidLibraryID
	ErrDuplicateLibraryID
	ErrExpectedRecordType
	ErrExpectedClassInfo
	ErrExpectedMessageFlags
	ErrInvalidMessageFlags
	ErrExpectedPrimitiveType
	ErrExpectedPrimitive
	ErrRecursionLimitExceeded
	ErrOther
)

// Error is returned when a byte stream does not conform to MS-NRBF. It
// carries the kind of violation and the byte offset at which it was
// detected.
type Error struct {
	Offset int
	Kind   ErrorKind

	// RecordType names the record that was expected, set only when Kind is
	// ErrExpectedRecordType.
	recordType RecordType
	// PrimitiveType names the primitive that was expected, set only when
	// Kind is ErrExpectedPrimitiveType's parameterized sibling
	// ErrExpectedPrimitive.
	primitiveType PrimitiveType
}

func (e *Error) Error() string {
	return fmt.Sprintf("nrbf: %s (at offset %d)", e.message(), e.Offset)
}

func (e *Error) message() string {
	switch e.Kind {
	case ErrEof:
		return "unexpected end of input"
	case ErrTrailingData:
		return "unexpected trailing data"
	case ErrUnresolvableMemberReference:
		return "unresolvable member reference"
	case ErrInvalidCallArrayID:
		return "invalid call array ID"
	case ErrMissingRootObject:
		return "missing root object"
	case ErrInvalidNullCount:
		return "invalid NULL count"
	case ErrInvalidObjectID:
		return "invalid object ID"
	case ErrDuplicateObjectID:
		return "duplicate object ID"
	case ErrInvalidLength:
		return "invalid length"
	case ErrInvalidMajorVersion:
		return "invalid major version"
	case ErrInvalidMinorVersion:
		return "invalid minor version"
	case ErrInvalidRootID:
		return "invalid root ID"
	case ErrMissingMetadataID:
		return "missing metadata ID"
	case ErrInvalidMetadataID:
		return "invalid metadata ID"
	case ErrInvalidArgs:
		return "invalid method arguments"
	case ErrUnexpectedClass:
		return "unexpected class"
	case ErrExpectedBinaryType:
		return "expected BinaryType"
	case ErrExpectedBinaryArrayType:
		return "expected BinaryArrayType"
	case ErrMissingLibraryID:
		return "missing library ID"
	case ErrInvalidLibraryID:
		return "invalid library ID"
	case ErrDuplicateLibraryID:
		return "duplicate library ID"
	case ErrExpectedRecordType:
		return "expected " + e.recordType.description()
	case ErrExpectedClassInfo:
		return "expected ClassInfo"
	case ErrExpectedMessageFlags:
		return "expected MessageFlags"
	case ErrInvalidMessageFlags:
		return "invalid MessageFlags"
	case ErrExpectedPrimitiveType:
		return "expected PrimitiveType"
	case ErrExpectedPrimitive:
		return "expected " + e.primitiveType.description()
	case ErrRecursionLimitExceeded:
		return "recursion limit exceeded"
	default:
		return "other error"
	}
}

func newError(offset int, kind ErrorKind) *Error {
	return &Error{Offset: offset, Kind: kind}
}

func newExpectedRecordTypeError(offset int, rt RecordType) *Error {
	return &Error{Offset: offset, Kind: ErrExpectedRecordType, recordType: rt}
}

func newExpectedPrimitiveError(offset int, pt PrimitiveType) *Error {
	return &Error{Offset: offset, Kind: ErrExpectedPrimitive, primitiveType: pt}
}
