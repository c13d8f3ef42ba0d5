package nrbf

// parser is the grammar driver and resolver: it walks the flat sequence of
// NRBF records produced by the decoder and assembles them into the object
// graph described by SerializedStreamHeader's root id, resolving
// MemberReference forward pointers by demand-parsing the very next
// referenceable record and asserting its id matches what was awaited.
type parser struct {
	d *decoder

	binaryLibraries map[uint32]string
	classes         map[uint32]*classRecord
	objects         map[uint32]Value

	rootID   int32
	depth    int
	maxDepth int
}

type classRecord struct {
	info        ClassInfo
	memberInfo  *MemberTypeInfo
	libraryName string
}

func newParser(data []byte, maxDepth int) *parser {
	return &parser{
		d:               newDecoder(data),
		binaryLibraries: make(map[uint32]string),
		classes:         make(map[uint32]*classRecord),
		objects:         make(map[uint32]Value),
		maxDepth:        maxDepth,
	}
}

func (p *parser) guardDepth() error {
	if p.depth >= p.maxDepth {
		return newError(p.d.offset(), ErrRecursionLimitExceeded)
	}
	p.depth++
	return nil
}

func (p *parser) unguardDepth() {
	p.depth--
}

func (p *parser) registerObject(id uint32, v Value) error {
	if _, dup := p.objects[id]; dup {
		return newError(p.d.offset(), ErrDuplicateObjectID)
	}
	p.objects[id] = v
	return nil
}

func (p *parser) libraryName(id uint32) (string, error) {
	name, ok := p.binaryLibraries[id]
	if !ok {
		return "", newError(p.d.offset(), ErrMissingLibraryID)
	}
	return name, nil
}

func (p *parser) registerLibrary(lib binaryLibrary) error {
	if _, dup := p.binaryLibraries[lib.LibraryID]; dup {
		return newError(p.d.offset(), ErrDuplicateLibraryID)
	}
	p.binaryLibraries[lib.LibraryID] = lib.LibraryName
	return nil
}

// resolveObject returns the Value registered under id, demand-parsing
// exactly one more referenceable record when id hasn't been seen yet. NRBF
// writers emit a forward MemberReference immediately before the object it
// points to, so a single additional record always satisfies it; anything
// else is a malformed stream.
func (p *parser) resolveObject(id uint32) (Value, error) {
	if v, ok := p.objects[id]; ok {
		delete(p.objects, id)
		return v, nil
	}
	if tag, ok := p.d.peekByte(); ok && RecordType(tag) == RecordMessageEnd {
		return Value{}, newError(p.d.offset(), ErrUnresolvableMemberReference)
	}
	gotID, v, err := p.parseReferenceableRecord()
	if err != nil {
		return Value{}, err
	}
	if gotID != id {
		return Value{}, newError(p.d.offset(), ErrUnresolvableMemberReference)
	}
	delete(p.objects, gotID)
	return v, nil
}

// parseReferenceableInline resolves the value occupying a member, array
// element, or argument slot whose BinaryType requires an object reference:
// either a MemberReference to resolve, a Null, or a referenceable record
// appearing inline at the current position. BinaryLibrary records
// encountered along the way register themselves and are skipped.
func (p *parser) parseReferenceableInline() (Value, error) {
	for {
		tag, ok := p.d.peekByte()
		if !ok {
			return Value{}, newError(p.d.offset(), ErrEof)
		}
		switch RecordType(tag) {
		case RecordBinaryLibrary:
			lib, err := parseBinaryLibrary(p.d)
			if err != nil {
				return Value{}, err
			}
			if err := p.registerLibrary(lib); err != nil {
				return Value{}, err
			}
			continue
		case RecordMemberReference:
			ref, err := parseMemberReference(p.d)
			if err != nil {
				return Value{}, err
			}
			return p.resolveObject(ref.IdRef)
		case RecordObjectNull:
			if err := parseObjectNull(p.d); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindNull}, nil
		default:
			_, v, err := p.parseReferenceableRecord()
			return v, err
		}
	}
}

// parseTypedMemberValue decodes one member/element value given its
// MemberTypeInfo entry.
func (p *parser) parseTypedMemberValue(bt BinaryType, extra AdditionalTypeInfo) (Value, error) {
	if bt == BinaryPrimitive {
		return parseMemberPrimitiveUnTyped(p.d, extra.Primitive)
	}
	if bt == BinaryString {
		return p.parseInlineStringMember()
	}
	if bt == BinaryObject || bt == BinaryObjectArray {
		return p.parseUntypedMemberValue()
	}
	return p.parseReferenceableInline()
}

// parseInlineStringMember reads the BinaryObjectString occupying a
// BinaryString-typed member slot. Its object id is deliberately not
// registered in the objects table: it is emitted inline as a value, not
// stored as a referenceable, matching the original implementation's
// behavior for this slot.
func (p *parser) parseInlineStringMember() (Value, error) {
	for {
		tag, ok := p.d.peekByte()
		if !ok {
			return Value{}, newError(p.d.offset(), ErrEof)
		}
		if RecordType(tag) == RecordBinaryLibrary {
			lib, err := parseBinaryLibrary(p.d)
			if err != nil {
				return Value{}, err
			}
			if err := p.registerLibrary(lib); err != nil {
				return Value{}, err
			}
			continue
		}
		r, err := parseBinaryObjectString(p.d)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, String: r.Value}, nil
	}
}

// parseUntypedMemberValue decodes one member value for a class with no
// MemberTypeInfo (ClassWithMembers / SystemClassWithMembers), or for an
// Object/ObjectArray-typed slot: the member's own record announces whether
// it is a self-tagged primitive (MemberPrimitiveTyped) or a referenceable
// value.
func (p *parser) parseUntypedMemberValue() (Value, error) {
	tag, ok := p.d.peekByte()
	if !ok {
		return Value{}, newError(p.d.offset(), ErrEof)
	}
	if RecordType(tag) == RecordMemberPrimitiveTyped {
		return parseMemberPrimitiveTyped(p.d)
	}
	return p.parseReferenceableInline()
}

func (p *parser) resolveClassMembers(ci ClassInfo, mi *MemberTypeInfo) ([]Value, error) {
	values := make([]Value, len(ci.MemberNames))
	for i := range values {
		var v Value
		var err error
		if mi != nil {
			v, err = p.parseTypedMemberValue(mi.Types[i], mi.ExtraInfo[i])
		} else {
			v, err = p.parseUntypedMemberValue()
		}
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (p *parser) finishClass(ci ClassInfo, mi *MemberTypeInfo, libName string) (uint32, Value, error) {
	if _, dup := p.classes[ci.ObjectID]; dup {
		return 0, Value{}, newError(p.d.offset(), ErrDuplicateObjectID)
	}
	p.classes[ci.ObjectID] = &classRecord{info: ci, memberInfo: mi, libraryName: libName}
	values, err := p.resolveClassMembers(ci, mi)
	if err != nil {
		return 0, Value{}, err
	}
	obj := &Object{ClassName: ci.Name, LibraryName: libName, MemberNames: ci.MemberNames, MemberValues: values}
	v := Value{Kind: KindObject, Object: obj}
	if err := p.registerObject(ci.ObjectID, v); err != nil {
		return 0, Value{}, err
	}
	return ci.ObjectID, v, nil
}

// fillArrayElements decodes count values of the given element type into
// elems, honoring ObjectNullMultiple/ObjectNullMultiple256 runs that collapse
// several consecutive Null elements into a single record.
func (p *parser) fillArrayElements(elems []Value, bt BinaryType, extra AdditionalTypeInfo) error {
	i := 0
	for i < len(elems) {
		tag, ok := p.d.peekByte()
		if !ok {
			return newError(p.d.offset(), ErrEof)
		}
		switch RecordType(tag) {
		case RecordObjectNullMultiple256:
			n, err := parseObjectNullMultiple256(p.d)
			if err != nil {
				return err
			}
			for j := 0; j < n && i < len(elems); j++ {
				elems[i] = Value{Kind: KindNull}
				i++
			}
		case RecordObjectNullMultiple:
			n, err := parseObjectNullMultiple(p.d)
			if err != nil {
				return err
			}
			for j := 0; j < n && i < len(elems); j++ {
				elems[i] = Value{Kind: KindNull}
				i++
			}
		default:
			v, err := p.parseTypedMemberValue(bt, extra)
			if err != nil {
				return err
			}
			elems[i] = v
			i++
		}
	}
	return nil
}

// foldArrayElements folds a flat, row-major element vector into nested
// Array Values according to a BinaryArray's dimension lengths, working from
// the innermost dimension outward: the outermost dimension (lengths[0])
// needs no further grouping, since it is exactly the length of the result.
func foldArrayElements(flat []Value, lengths []int, elemType BinaryType) *Array {
	cur := flat
	for i := len(lengths) - 1; i >= 1; i-- {
		l := lengths[i]
		groups := 0
		if l > 0 {
			groups = len(cur) / l
		}
		next := make([]Value, groups)
		for g := 0; g < groups; g++ {
			chunk := make([]Value, l)
			copy(chunk, cur[g*l:(g+1)*l])
			next[g] = Value{Kind: KindArray, Array: &Array{ElemType: elemType, Elements: chunk}}
		}
		cur = next
	}
	return &Array{ElemType: elemType, Elements: cur}
}

func (p *parser) finishBinaryArray(r binaryArray) (Value, error) {
	flat := make([]Value, r.Info.Length)
	if r.ElemType == BinaryPrimitive {
		for i := range flat {
			v, err := parseMemberPrimitiveUnTyped(p.d, r.ExtraInfo.Primitive)
			if err != nil {
				return Value{}, err
			}
			flat[i] = v
		}
	} else if err := p.fillArrayElements(flat, r.ElemType, r.ExtraInfo); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindArray, Array: foldArrayElements(flat, r.Lengths, r.ElemType)}, nil
}

// parseReferenceableRecord parses exactly one record that carries its own
// object id (a class instance, string, or array), registers it, and returns
// its id and resolved Value. BinaryLibrary records are skipped transparently.
func (p *parser) parseReferenceableRecord() (uint32, Value, error) {
	if err := p.guardDepth(); err != nil {
		return 0, Value{}, err
	}
	defer p.unguardDepth()

	for {
		tag, ok := p.d.peekByte()
		if !ok {
			return 0, Value{}, newError(p.d.offset(), ErrEof)
		}
		switch RecordType(tag) {
		case RecordBinaryLibrary:
			lib, err := parseBinaryLibrary(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			if err := p.registerLibrary(lib); err != nil {
				return 0, Value{}, err
			}
			continue
		case RecordBinaryObjectString:
			r, err := parseBinaryObjectString(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			v := Value{Kind: KindString, String: r.Value}
			if err := p.registerObject(r.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return r.ObjectID, v, nil
		case RecordClassWithMembers:
			r, err := parseClassWithMembers(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			name, err := p.libraryName(r.LibraryID)
			if err != nil {
				return 0, Value{}, err
			}
			return p.finishClass(r.ClassInfo, nil, name)
		case RecordClassWithMembersAndTypes:
			r, err := parseClassWithMembersAndTypes(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			name, err := p.libraryName(r.LibraryID)
			if err != nil {
				return 0, Value{}, err
			}
			return p.finishClass(r.ClassInfo, &r.MemberInfo, name)
		case RecordSystemClassWithMembers:
			r, err := parseSystemClassWithMembers(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			return p.finishClass(r.ClassInfo, nil, "")
		case RecordSystemClassWithMembersAndTypes:
			r, err := parseSystemClassWithMembersAndTypes(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			return p.finishClass(r.ClassInfo, &r.MemberInfo, "")
		case RecordClassWithID:
			r, err := parseClassWithId(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			cls, ok := p.classes[r.MetadataID]
			if !ok {
				return 0, Value{}, newError(p.d.offset(), ErrMissingMetadataID)
			}
			values, err := p.resolveClassMembers(cls.info, cls.memberInfo)
			if err != nil {
				return 0, Value{}, err
			}
			obj := &Object{
				ClassName:    cls.info.Name,
				LibraryName:  cls.libraryName,
				MemberNames:  cls.info.MemberNames,
				MemberValues: values,
			}
			v := Value{Kind: KindObject, Object: obj}
			if err := p.registerObject(r.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return r.ObjectID, v, nil
		case RecordBinaryArray:
			r, err := parseBinaryArray(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			v, err := p.finishBinaryArray(r)
			if err != nil {
				return 0, Value{}, err
			}
			if err := p.registerObject(r.Info.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return r.Info.ObjectID, v, nil
		case RecordArraySingleObject:
			info, err := parseArraySingleObject(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			elems := make([]Value, info.Length)
			if err := p.fillArrayElements(elems, BinaryObject, AdditionalTypeInfo{}); err != nil {
				return 0, Value{}, err
			}
			v := Value{Kind: KindArray, Array: &Array{ElemType: BinaryObject, Elements: elems}}
			if err := p.registerObject(info.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return info.ObjectID, v, nil
		case RecordArraySingleString:
			info, err := parseArraySingleString(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			elems := make([]Value, info.Length)
			if err := p.fillArrayElements(elems, BinaryStringArray, AdditionalTypeInfo{}); err != nil {
				return 0, Value{}, err
			}
			v := Value{Kind: KindArray, Array: &Array{ElemType: BinaryString, Elements: elems}}
			if err := p.registerObject(info.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return info.ObjectID, v, nil
		case RecordArraySinglePrimitive:
			r, err := parseArraySinglePrimitive(p.d)
			if err != nil {
				return 0, Value{}, err
			}
			elems := make([]Value, r.Info.Length)
			for i := range elems {
				v, err := parseMemberPrimitiveUnTyped(p.d, r.ElemType)
				if err != nil {
					return 0, Value{}, err
				}
				elems[i] = v
			}
			v := Value{Kind: KindArray, Array: &Array{ElemType: BinaryPrimitive, Elements: elems}}
			if err := p.registerObject(r.Info.ObjectID, v); err != nil {
				return 0, Value{}, err
			}
			return r.Info.ObjectID, v, nil
		default:
			return 0, Value{}, newExpectedRecordTypeError(p.d.offset(), RecordBinaryObjectString)
		}
	}
}

// parseTopLevelValue parses the stream's bare-value body: referenceable
// records (and any interleaved BinaryLibrary) are parsed and registered one
// after another until none remain, then the root value is looked up by the
// header's root id. A root id of 0 names no object and resolves to Null.
func (p *parser) parseTopLevelValue(rootID int32) (Value, error) {
	for {
		tag, ok := p.d.peekByte()
		if !ok {
			return Value{}, newError(p.d.offset(), ErrEof)
		}
		if RecordType(tag) == RecordMessageEnd {
			break
		}
		if _, _, err := p.parseReferenceableRecord(); err != nil {
			return Value{}, err
		}
	}
	if rootID == 0 {
		return Value{Kind: KindNull}, nil
	}
	v, ok := p.objects[uint32(rootID)]
	if !ok {
		return Value{}, newError(p.d.offset(), ErrMissingRootObject)
	}
	delete(p.objects, uint32(rootID))
	return v, nil
}

// parseCallArray parses the "call array" mechanism used when a method
// call/return's arguments or return value are carried out-of-line: an
// ArraySingleObject record whose id equals the header's root id.
func (p *parser) parseCallArray() ([]Value, error) {
	id, v, err := p.parseReferenceableRecord()
	if err != nil {
		return nil, err
	}
	if v.Kind != KindArray || int32(id) != p.rootID {
		return nil, newError(p.d.offset(), ErrInvalidCallArrayID)
	}
	return v.Array.Elements, nil
}

func (p *parser) expectMessageEnd() error {
	tag, ok := p.d.peekByte()
	if !ok {
		return newError(p.d.offset(), ErrEof)
	}
	if RecordType(tag) != RecordMessageEnd {
		return newExpectedRecordTypeError(p.d.offset(), RecordMessageEnd)
	}
	return parseMessageEnd(p.d)
}

// parseRemotingMessage is the top-level grammar entry point: header, then
// either a MethodCall, a MethodReturn, or a bare root Value, then
// MessageEnd, then no trailing data.
func (p *parser) parseRemotingMessage() (*RemotingMessage, error) {
	header, err := parseSerializationHeader(p.d)
	if err != nil {
		return nil, err
	}
	p.rootID = header.RootID

	tag, ok := p.d.peekByte()
	if !ok {
		return nil, newError(p.d.offset(), ErrEof)
	}

	var msg RemotingMessage
	switch RecordType(tag) {
	case RecordMethodCall:
		mc, err := p.parseBinaryMethodCall()
		if err != nil {
			return nil, err
		}
		msg = RemotingMessage{Kind: MessageMethodCall, MethodCall: mc}
	case RecordMethodReturn:
		mr, err := p.parseBinaryMethodReturn()
		if err != nil {
			return nil, err
		}
		msg = RemotingMessage{Kind: MessageMethodReturn, MethodReturn: mr}
	default:
		v, err := p.parseTopLevelValue(header.RootID)
		if err != nil {
			return nil, err
		}
		msg = RemotingMessage{Kind: MessageValue, Value: v}
	}

	if err := p.expectMessageEnd(); err != nil {
		return nil, err
	}
	if p.d.remaining() != 0 {
		return nil, newError(p.d.offset(), ErrTrailingData)
	}
	return &msg, nil
}
