package metadb

import "strconv"

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindUint represents an unsigned integer value.
	KindUint
	// KindBool represents a boolean value.
	KindBool
	// KindString represents a string value.
	KindString
	// KindBinary represents a raw byte value.
	KindBinary
	// KindArray represents an array value.
	KindArray
	// KindMap represents a map value.
	KindMap
)

// Value is a small typed value decoded from a metadata database record.
//
// The representation is a closed variant with an explicit discriminant:
// no reflection and no fmt-based stringification on the read path.
type Value struct {
	Kind Kind
	I64  int64
	U64  uint64
	B    bool
	Str  string
	Bin  []byte
	Arr  []Value
	Map  []MapItem
}

// MapItem is one key/value pair of a KindMap value. Keys are themselves
// Values because the wire format permits non-string keys; consumers skip
// pairs whose key is not a string.
type MapItem struct {
	Key   Value
	Value Value
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsInt64 returns the integer value if Kind is KindInt or KindUint.
func (v Value) AsInt64() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.I64, true
	case KindUint:
		return int64(v.U64), true
	default:
		return 0, false
	}
}

// AsBinary returns the raw bytes if Kind is KindBinary.
func (v Value) AsBinary() ([]byte, bool) {
	if v.Kind != KindBinary {
		return nil, false
	}
	return v.Bin, true
}

// AsMap returns the map items if Kind is KindMap.
func (v Value) AsMap() ([]MapItem, bool) {
	if v.Kind != KindMap {
		return nil, false
	}
	return v.Map, true
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String implements fmt.Stringer for diagnostics only.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindUint:
		return strconv.FormatUint(v.U64, 10)
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindString:
		return v.Str
	case KindBinary:
		return "0x" + strconv.FormatInt(int64(len(v.Bin)), 10) + "b"
	case KindArray:
		return "array[" + strconv.Itoa(len(v.Arr)) + "]"
	case KindMap:
		return "map[" + strconv.Itoa(len(v.Map)) + "]"
	default:
		return "invalid"
	}
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an integer Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Uint returns an unsigned integer Value.
func Uint(v uint64) Value { return Value{Kind: KindUint, U64: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Str returns a string Value.
func Str(v string) Value { return Value{Kind: KindString, Str: v} }

// Bin returns a binary Value.
func Bin(v []byte) Value { return Value{Kind: KindBinary, Bin: v} }

// Arr returns an array Value.
func Arr(v ...Value) Value { return Value{Kind: KindArray, Arr: v} }

// MapOf returns a map Value from alternating string keys and values.
// It panics on an odd number of arguments; it is intended for fixtures
// and tests.
func MapOf(kv ...any) Value {
	if len(kv)%2 != 0 {
		panic("metadb: MapOf requires an even number of arguments")
	}
	items := make([]MapItem, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key := Str(kv[i].(string))
		val, ok := kv[i+1].(Value)
		if !ok {
			panic("metadb: MapOf values must be metadb.Value")
		}
		items = append(items, MapItem{Key: key, Value: val})
	}
	return Value{Kind: KindMap, Map: items}
}
