package scripting

import (
	"fmt"
	"reflect"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Component structs cross into Lua as plain tables keyed by the same names
// prefabs use: the yaml tag, else the lower-cased field name.

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("yaml"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// toTable copies a struct into a new Lua table.
func toTable(L *lua.LState, v reflect.Value) *lua.LTable {
	t := L.NewTable()
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name := fieldName(f)
		if !f.IsExported() || name == "" {
			continue
		}
		if lv := toLValue(L, v.Field(i)); lv != lua.LNil {
			t.RawSetString(name, lv)
		}
	}
	return t
}

func toLValue(L *lua.LState, v reflect.Value) lua.LValue {
	switch v.Kind() {
	case reflect.Bool:
		return lua.LBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(v.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(v.Float())
	case reflect.String:
		return lua.LString(v.String())
	case reflect.Struct:
		return toTable(L, v)
	}
	return lua.LNil
}

// fromTable writes the fields present in t into the struct v. Fields the
// table does not mention keep their value.
func fromTable(t *lua.LTable, v reflect.Value) error {
	typ := v.Type()
	fields := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if name := fieldName(f); f.IsExported() && name != "" {
			fields[name] = i
		}
	}

	var err error
	t.ForEach(func(key, value lua.LValue) {
		if err != nil {
			return
		}
		name, ok := key.(lua.LString)
		if !ok {
			err = fmt.Errorf("%s: non-string key %s", typ.Name(), key)
			return
		}
		i, ok := fields[string(name)]
		if !ok {
			err = fmt.Errorf("%s has no field %q", typ.Name(), string(name))
			return
		}
		if setErr := setField(v.Field(i), value); setErr != nil {
			err = fmt.Errorf("%s.%s: %w", typ.Name(), string(name), setErr)
		}
	})
	return err
}

func setField(dst reflect.Value, value lua.LValue) error {
	switch dst.Kind() {
	case reflect.Bool:
		b, ok := value.(lua.LBool)
		if !ok {
			return fmt.Errorf("want boolean, got %s", value.Type())
		}
		dst.SetBool(bool(b))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := value.(lua.LNumber)
		if !ok {
			return fmt.Errorf("want number, got %s", value.Type())
		}
		i := int64(n)
		if float64(i) != float64(n) || dst.OverflowInt(i) {
			return fmt.Errorf("%v does not fit %s", n, dst.Type())
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := value.(lua.LNumber)
		if !ok {
			return fmt.Errorf("want number, got %s", value.Type())
		}
		if n < 0 || float64(uint64(n)) != float64(n) || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("%v does not fit %s", n, dst.Type())
		}
		dst.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		n, ok := value.(lua.LNumber)
		if !ok {
			return fmt.Errorf("want number, got %s", value.Type())
		}
		dst.SetFloat(float64(n))
	case reflect.String:
		s, ok := value.(lua.LString)
		if !ok {
			return fmt.Errorf("want string, got %s", value.Type())
		}
		dst.SetString(string(s))
	case reflect.Struct:
		t, ok := value.(*lua.LTable)
		if !ok {
			return fmt.Errorf("want table, got %s", value.Type())
		}
		return fromTable(t, dst)
	default:
		return fmt.Errorf("unsupported field type %s", dst.Type())
	}
	return nil
}
