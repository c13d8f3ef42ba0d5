package nrbf

// messageFlags is 2.2.3.1 MessageFlags: a 32-bit bitfield describing which
// optional pieces of a MethodCall/MethodReturn are present and where their
// data lives.
type messageFlags uint32

const (
	flagNoArgs                 messageFlags = 1 << 0
	flagArgsInline             messageFlags = 1 << 1
	flagArgsIsArray            messageFlags = 1 << 2
	flagArgsInArray            messageFlags = 1 << 3
	flagNoContext              messageFlags = 1 << 4
	flagContextInline          messageFlags = 1 << 5
	flagContextInArray         messageFlags = 1 << 6
	flagMethodSignatureInArray messageFlags = 1 << 7
	flagPropertiesInArray      messageFlags = 1 << 8
	flagNoReturnValue          messageFlags = 1 << 9
	flagReturnValueVoid        messageFlags = 1 << 10
	flagReturnValueInline      messageFlags = 1 << 11
	flagReturnValueInArray     messageFlags = 1 << 12
	flagExceptionInArray       messageFlags = 1 << 13
	flagGenericMethod          messageFlags = 1 << 15
)

const (
	argsGroupMask    = flagNoArgs | flagArgsInline | flagArgsIsArray | flagArgsInArray
	contextGroupMask = flagNoContext | flagContextInline | flagContextInArray
	returnGroupMask  = flagNoReturnValue | flagReturnValueVoid | flagReturnValueInline | flagReturnValueInArray
)

func onesInMask(f, mask messageFlags) int {
	n := 0
	for b := f & mask; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func (f messageFlags) has(bit messageFlags) bool {
	return f&bit != 0
}

// validate enforces at most one flag per category (args, context, and for
// MethodReturn the return-value category; the signature, exception,
// properties and generic categories are single flags) plus the category
// exclusions: the exception flag excludes any args, return-value (checked
// for MethodReturn) or signature flag, and the signature flag excludes any
// return-value flag.
func (f messageFlags) validate(offset int, isReturn bool) error {
	if onesInMask(f, argsGroupMask) > 1 {
		return newError(offset, ErrInvalidMessageFlags)
	}
	if onesInMask(f, contextGroupMask) > 1 {
		return newError(offset, ErrInvalidMessageFlags)
	}
	if isReturn {
		if onesInMask(f, returnGroupMask) > 1 {
			return newError(offset, ErrInvalidMessageFlags)
		}
		if f.has(flagExceptionInArray) && f&returnGroupMask != 0 {
			return newError(offset, ErrInvalidMessageFlags)
		}
	}
	if f.has(flagExceptionInArray) && f&(argsGroupMask|flagMethodSignatureInArray) != 0 {
		return newError(offset, ErrInvalidMessageFlags)
	}
	if f.has(flagMethodSignatureInArray) && f&returnGroupMask != 0 {
		return newError(offset, ErrInvalidMessageFlags)
	}
	return nil
}

func parseMessageFlags(d *decoder, isReturn bool) (messageFlags, error) {
	errOffset := d.offset()
	raw, err := d.u32()
	if err != nil {
		return 0, err
	}
	f := messageFlags(raw)
	if err := f.validate(errOffset, isReturn); err != nil {
		return 0, err
	}
	return f, nil
}

// MethodCall is the resolved form of 2.2.3.2 BinaryMethodCall.
type MethodCall struct {
	MethodName     string
	TypeName       string
	CallContext    string
	HasCallContext bool
	Args           []Value
}

func (p *parser) parseBinaryMethodCall() (*MethodCall, error) {
	if err := p.d.expectRecordType(RecordMethodCall); err != nil {
		return nil, err
	}
	flags, err := parseMessageFlags(p.d, false)
	if err != nil {
		return nil, err
	}
	methodName, err := parseStringValueWithCode(p.d)
	if err != nil {
		return nil, err
	}
	typeName, err := parseStringValueWithCode(p.d)
	if err != nil {
		return nil, err
	}
	mc := &MethodCall{MethodName: methodName, TypeName: typeName}
	if flags.has(flagContextInline) {
		ctx, err := parseStringValueWithCode(p.d)
		if err != nil {
			return nil, err
		}
		mc.CallContext = ctx
		mc.HasCallContext = true
	}
	switch {
	case flags.has(flagArgsInline):
		args, err := parseArrayOfValueWithCode(p.d)
		if err != nil {
			return nil, err
		}
		mc.Args = args
	case flags.has(flagArgsIsArray), flags.has(flagArgsInArray):
		args, err := p.parseCallArray()
		if err != nil {
			return nil, err
		}
		if flags.has(flagArgsInArray) {
			if len(args) == 0 || args[0].Kind != KindArray {
				return nil, newError(p.d.offset(), ErrInvalidArgs)
			}
			args = args[0].Array.Elements
		}
		mc.Args = args
	}
	return mc, nil
}

// MethodReturn is the resolved form of 2.2.3.3 BinaryMethodReturn.
type MethodReturn struct {
	ReturnValue    Value
	HasReturnValue bool
	CallContext    string
	HasCallContext bool
	Args           []Value
}

func (p *parser) parseBinaryMethodReturn() (*MethodReturn, error) {
	if err := p.d.expectRecordType(RecordMethodReturn); err != nil {
		return nil, err
	}
	flags, err := parseMessageFlags(p.d, true)
	if err != nil {
		return nil, err
	}
	mr := &MethodReturn{}
	if flags.has(flagReturnValueInline) {
		v, err := parseValueWithCode(p.d)
		if err != nil {
			return nil, err
		}
		mr.ReturnValue = v
		mr.HasReturnValue = true
	}
	if flags.has(flagContextInline) {
		ctx, err := parseStringValueWithCode(p.d)
		if err != nil {
			return nil, err
		}
		mr.CallContext = ctx
		mr.HasCallContext = true
	}
	switch {
	case flags.has(flagArgsInline):
		args, err := parseArrayOfValueWithCode(p.d)
		if err != nil {
			return nil, err
		}
		mr.Args = args
	case flags.has(flagArgsIsArray), flags.has(flagArgsInArray):
		args, err := p.parseCallArray()
		if err != nil {
			return nil, err
		}
		if flags.has(flagArgsInArray) {
			if len(args) == 0 || args[0].Kind != KindArray {
				return nil, newError(p.d.offset(), ErrInvalidArgs)
			}
			args = args[0].Array.Elements
		}
		mr.Args = args
	}
	return mr, nil
}

// MessageKind tags which field of a RemotingMessage is meaningful.
type MessageKind uint8

const (
	MessageMethodCall MessageKind = iota
	MessageMethodReturn
	MessageValue
)

// RemotingMessage is the top-level result of parsing an NRBF stream: a
// MethodCall, a MethodReturn, or a bare root Value.
type RemotingMessage struct {
	Kind         MessageKind
	MethodCall   *MethodCall
	MethodReturn *MethodReturn
	Value        Value
}
