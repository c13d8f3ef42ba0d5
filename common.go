package nrbf

// ClassTypeInfo is the 2.1.1.8 ClassTypeInfo structure: the name of a class
// together with the id of the BinaryLibrary it was declared in.
type ClassTypeInfo struct {
	TypeName  string
	LibraryID uint32
}

func parseClassTypeInfo(d *decoder) (ClassTypeInfo, error) {
	name, err := d.lengthPrefixedString()
	if err != nil {
		return ClassTypeInfo{}, err
	}
	libID, err := d.libraryID()
	if err != nil {
		return ClassTypeInfo{}, err
	}
	return ClassTypeInfo{TypeName: name, LibraryID: libID}, nil
}

// AdditionalTypeInfo carries the extra per-member type data that accompanies
// some BinaryType values in a MemberTypeInfo (2.3.1.2). Exactly one of the
// fields is meaningful, selected by the BinaryType it was parsed for.
type AdditionalTypeInfo struct {
	Primitive     PrimitiveType
	SystemClass   string
	Class         ClassTypeInfo
	hasPrimitive  bool
	hasSystem     bool
	hasClass      bool
}

func parseAdditionalTypeInfo(d *decoder, bt BinaryType) (AdditionalTypeInfo, error) {
	switch bt {
	case BinaryPrimitive, BinaryPrimitiveArray:
		pt, err := d.primitiveType()
		if err != nil {
			return AdditionalTypeInfo{}, err
		}
		return AdditionalTypeInfo{Primitive: pt, hasPrimitive: true}, nil
	case BinarySystemClass:
		name, err := d.lengthPrefixedString()
		if err != nil {
			return AdditionalTypeInfo{}, err
		}
		return AdditionalTypeInfo{SystemClass: name, hasSystem: true}, nil
	case BinaryClass:
		ci, err := parseClassTypeInfo(d)
		if err != nil {
			return AdditionalTypeInfo{}, err
		}
		return AdditionalTypeInfo{Class: ci, hasClass: true}, nil
	case BinaryString, BinaryStringArray, BinaryObject, BinaryObjectArray:
		return AdditionalTypeInfo{}, nil
	default:
		return AdditionalTypeInfo{}, newError(d.offset(), ErrExpectedBinaryType)
	}
}

// MemberTypeInfo is the 2.3.1.2 MemberTypeInfo structure: one BinaryType and
// its AdditionalTypeInfo per class member, describing how to parse that
// member's value.
type MemberTypeInfo struct {
	Types      []BinaryType
	ExtraInfo  []AdditionalTypeInfo
}

func parseMemberTypeInfo(d *decoder, count int) (MemberTypeInfo, error) {
	types := make([]BinaryType, count)
	for i := 0; i < count; i++ {
		bt, err := d.binaryType()
		if err != nil {
			return MemberTypeInfo{}, err
		}
		types[i] = bt
	}
	extra := make([]AdditionalTypeInfo, count)
	for i := 0; i < count; i++ {
		info, err := parseAdditionalTypeInfo(d, types[i])
		if err != nil {
			return MemberTypeInfo{}, err
		}
		extra[i] = info
	}
	return MemberTypeInfo{Types: types, ExtraInfo: extra}, nil
}

// ClassInfo is the 2.3.1.1 ClassInfo structure: the object id assigned to a
// class instance, the class's fully qualified name, and its member names.
type ClassInfo struct {
	ObjectID    uint32
	Name        string
	MemberNames []string
}

func parseClassInfo(d *decoder) (ClassInfo, error) {
	id, err := d.objectID()
	if err != nil {
		return ClassInfo{}, err
	}
	name, err := d.lengthPrefixedString()
	if err != nil {
		return ClassInfo{}, err
	}
	count, err := d.length()
	if err != nil {
		return ClassInfo{}, err
	}
	members := make([]string, count)
	for i := 0; i < count; i++ {
		m, err := d.lengthPrefixedString()
		if err != nil {
			return ClassInfo{}, err
		}
		members[i] = m
	}
	return ClassInfo{ObjectID: id, Name: name, MemberNames: members}, nil
}

// ArrayInfo is the 2.4.2.1 ArrayInfo structure: the object id assigned to an
// array instance and its element count.
type ArrayInfo struct {
	ObjectID uint32
	Length   int
}

func parseArrayInfo(d *decoder) (ArrayInfo, error) {
	id, err := d.objectID()
	if err != nil {
		return ArrayInfo{}, err
	}
	n, err := d.length()
	if err != nil {
		return ArrayInfo{}, err
	}
	return ArrayInfo{ObjectID: id, Length: n}, nil
}
