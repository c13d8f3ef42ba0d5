// Package decode projects a resolved nrbf.Value onto a plain Go value,
// unboxing System.* primitive wrapper objects and System.Collections.Generic
// lists the way an application consuming deserialized .NET graphs expects,
// instead of having to pattern-match on nrbf.Object itself.
package decode

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/saferwall/nrbf"
)

// Decode projects v onto out, which must be a non-nil pointer. Passing
// *interface{} (or *map[string]interface{}) yields a generic tree built from
// maps, slices, and Go primitives.
func Decode(v *nrbf.Value, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode: out must be a non-nil pointer")
	}
	return decodeValue(v, rv.Elem())
}

func decodeValue(v *nrbf.Value, dst reflect.Value) error {
	switch v.Kind {
	case nrbf.KindNull:
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	case nrbf.KindBoolean:
		return assign(dst, v.Boolean)
	case nrbf.KindByte:
		return assign(dst, v.Byte)
	case nrbf.KindChar:
		return assign(dst, v.Char)
	case nrbf.KindDecimal:
		return assign(dst, v.Decimal.String())
	case nrbf.KindDouble:
		return assign(dst, v.Double)
	case nrbf.KindInt16:
		return assign(dst, v.Int16)
	case nrbf.KindInt32:
		return assign(dst, v.Int32)
	case nrbf.KindInt64:
		return assign(dst, v.Int64)
	case nrbf.KindSByte:
		return assign(dst, v.SByte)
	case nrbf.KindSingle:
		return assign(dst, v.Single)
	case nrbf.KindTimeSpan:
		return assign(dst, v.TimeSpan.Value())
	case nrbf.KindDateTime:
		return assign(dst, v.DateTime.Ticks())
	case nrbf.KindUInt16:
		return assign(dst, v.UInt16)
	case nrbf.KindUInt32:
		return assign(dst, v.UInt32)
	case nrbf.KindUInt64:
		return assign(dst, v.UInt64)
	case nrbf.KindString:
		return assign(dst, v.String)
	case nrbf.KindArray:
		return decodeArray(v.Array, dst)
	case nrbf.KindObject:
		return decodeObject(v.Object, dst)
	default:
		return fmt.Errorf("decode: unsupported value kind %d", v.Kind)
	}
}

func assign(dst reflect.Value, val interface{}) error {
	rv := reflect.ValueOf(val)
	if dst.Kind() == reflect.Interface {
		dst.Set(rv)
		return nil
	}
	if !rv.Type().ConvertibleTo(dst.Type()) {
		return fmt.Errorf("decode: cannot assign %T to %s", val, dst.Type())
	}
	dst.Set(rv.Convert(dst.Type()))
	return nil
}

func decodeArray(a *nrbf.Array, dst reflect.Value) error {
	if dst.Kind() == reflect.Interface {
		out := make([]interface{}, len(a.Elements))
		for i := range a.Elements {
			var elem interface{}
			ev := reflect.ValueOf(&elem).Elem()
			if err := decodeValue(&a.Elements[i], ev); err != nil {
				return err
			}
			out[i] = elem
		}
		dst.Set(reflect.ValueOf(out))
		return nil
	}
	if dst.Kind() != reflect.Slice {
		return fmt.Errorf("decode: cannot assign array to %s", dst.Type())
	}
	slice := reflect.MakeSlice(dst.Type(), len(a.Elements), len(a.Elements))
	for i := range a.Elements {
		if err := decodeValue(&a.Elements[i], slice.Index(i)); err != nil {
			return err
		}
	}
	dst.Set(slice)
	return nil
}

func decodeObject(o *nrbf.Object, dst reflect.Value) error {
	if strings.HasPrefix(o.ClassName, "System.Collections.Generic.List`1") {
		return decodeList(o, dst)
	}
	if mv, ok := unboxPrimitive(o); ok {
		return decodeValue(mv, dst)
	}
	return decodeGenericObject(o, dst)
}

// unboxPrimitive recognizes the System.* primitive wrapper classes
// (System.Int32, System.String, System.Boolean, ...) that BinaryFormatter
// emits for boxed value types, all of which carry their payload in a single
// "m_value" member.
func unboxPrimitive(o *nrbf.Object) (*nrbf.Value, bool) {
	if !strings.HasPrefix(o.ClassName, "System.") {
		return nil, false
	}
	v, ok := o.Member("m_value")
	if !ok {
		return nil, false
	}
	return &v, true
}

// decodeList projects a System.Collections.Generic.List`1 instance into a
// slice, trimming its backing _items array to its logical _size.
func decodeList(o *nrbf.Object, dst reflect.Value) error {
	items, ok := o.Member("_items")
	if !ok || items.Kind != nrbf.KindArray {
		return fmt.Errorf("decode: malformed List`1 object %q", o.ClassName)
	}
	elems := items.Array.Elements
	if sizeVal, ok := o.Member("_size"); ok && sizeVal.Kind == nrbf.KindInt32 {
		if n := int(sizeVal.Int32); n >= 0 && n <= len(elems) {
			elems = elems[:n]
		}
	}
	trimmed := &nrbf.Array{ElemType: items.Array.ElemType, Elements: elems}
	return decodeArray(trimmed, dst)
}

func decodeGenericObject(o *nrbf.Object, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Interface:
		m := make(map[string]interface{}, len(o.MemberNames))
		for i, name := range o.MemberNames {
			var val interface{}
			ev := reflect.ValueOf(&val).Elem()
			if err := decodeValue(&o.MemberValues[i], ev); err != nil {
				return err
			}
			m[name] = val
		}
		dst.Set(reflect.ValueOf(m))
		return nil
	case reflect.Map:
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		for i, name := range o.MemberNames {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := decodeValue(&o.MemberValues[i], ev); err != nil {
				return err
			}
			dst.SetMapIndex(reflect.ValueOf(name).Convert(dst.Type().Key()), ev)
		}
		return nil
	case reflect.Struct:
		for i, name := range o.MemberNames {
			f := dst.FieldByName(exportedFieldName(name))
			if !f.IsValid() || !f.CanSet() {
				continue
			}
			if err := decodeValue(&o.MemberValues[i], f); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeGenericObject(o, dst.Elem())
	default:
		return fmt.Errorf("decode: cannot assign object %q to %s", o.ClassName, dst.Type())
	}
}

// exportedFieldName maps a .NET backing-field member name (e.g. "_name",
// "m_value") to the exported Go struct field name a caller would plausibly
// have chosen for it.
func exportedFieldName(memberName string) string {
	name := strings.TrimPrefix(memberName, "m_")
	name = strings.TrimPrefix(name, "_")
	if name == "" {
		return memberName
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
