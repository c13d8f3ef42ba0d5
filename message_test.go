package nrbf

import "testing"

func TestMessageFlagsValidCombinations(t *testing.T) {
	cases := []struct {
		name     string
		flags    messageFlags
		isReturn bool
	}{
		{"call no args no context", flagNoArgs | flagNoContext, false},
		{"call args inline", flagArgsInline | flagNoContext, false},
		{"call args in array", flagArgsInArray | flagNoContext, false},
		{"return void no context", flagReturnValueVoid | flagNoContext, true},
		{"return inline", flagNoArgs | flagNoContext | flagReturnValueInline, true},
		{"generic method with signature in array", flagNoArgs | flagNoContext | flagMethodSignatureInArray | flagGenericMethod, false},
		{"no args bit at all set", 0, false},
		{"no context bit set", flagNoArgs, false},
		{"generic method without signature in array", flagNoArgs | flagNoContext | flagGenericMethod, false},
		{"return without a return-group bit", flagNoArgs | flagNoContext, true},
	}
	for _, c := range cases {
		if err := c.flags.validate(0, c.isReturn); err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
	}
}

func TestMessageFlagsInvalidCombinations(t *testing.T) {
	cases := []struct {
		name     string
		flags    messageFlags
		isReturn bool
	}{
		{"two return-group bits set", flagNoReturnValue | flagReturnValueVoid | flagNoContext, true},
		{"both no-args and args-inline", flagNoArgs | flagArgsInline | flagNoContext, false},
		{"args-is-array and args-in-array both set", flagArgsIsArray | flagArgsInArray | flagNoContext, false},
		{"no-context and context-inline both set", flagNoArgs | flagNoContext | flagContextInline, false},
		{"exception in array with args", flagArgsInline | flagNoContext | flagExceptionInArray, true},
		{"signature in array with return value", flagNoArgs | flagNoContext | flagMethodSignatureInArray | flagReturnValueVoid, true},
		{"exception in array with inline return value", flagNoContext | flagReturnValueInline | flagExceptionInArray, true},
	}
	for _, c := range cases {
		if err := c.flags.validate(0, c.isReturn); err == nil {
			t.Errorf("%s: expected an error, got nil", c.name)
		}
	}
}
