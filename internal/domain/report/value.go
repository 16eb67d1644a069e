package report

import (
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

type Kind uint8

const (
	KindAbsent Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// Value is one loosely-typed scalar from a scraped report payload. Feeds mix
// booleans, numbers, strings and lists freely, and mark absent attributes
// with null, NaN or an empty string.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	raw  []byte
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append([]byte(nil), data...)

	if len(data) == 0 {
		v.kind = KindAbsent
		return nil
	}

	switch data[0] {
	case 'n': // null
		v.kind = KindAbsent
		return nil
	case 't', 'f':
		var b bool
		if err := sonic.Unmarshal(data, &b); err != nil {
			return err
		}
		v.kind = KindBool
		v.b = b
		return nil
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "NaN" {
			v.kind = KindAbsent
			return nil
		}
		v.kind = KindString
		v.s = s
		return nil
	case '[':
		var list []Value
		if err := sonic.Unmarshal(data, &list); err != nil {
			return err
		}
		v.kind = KindList
		v.list = list
		return nil
	case '{':
		v.kind = KindObject
		return nil
	default:
		var n float64
		if err := sonic.Unmarshal(data, &n); err != nil {
			return err
		}
		if math.IsNaN(n) {
			v.kind = KindAbsent
			return nil
		}
		v.kind = KindNumber
		v.n = n
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) > 0 {
		return v.raw, nil
	}

	switch v.kind {
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindNumber:
		return strconv.AppendFloat(nil, v.n, 'g', -1, 64), nil
	case KindString:
		return sonic.Marshal(v.s)
	case KindList:
		return sonic.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }
func String(s string) Value  { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) Present() bool { return v.kind != KindAbsent }

// Truthy reports whether the value counts as a set flag. Feeds encode flags
// as true, as 1.0 or as the literal strings "true"/"True".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s == "true" || v.s == "True"
	case KindList:
		return len(v.list) > 0
	default:
		return false
	}
}

func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		n, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (v Value) Int64() (int64, bool) {
	n, ok := v.Float64()
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) List() []Value {
	return v.list
}

// Raw returns the original JSON bytes the value was decoded from.
func (v Value) Raw() []byte {
	return v.raw
}
