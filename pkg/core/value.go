package core

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind discriminates the variants of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt64
	KindFloat64
	KindText
	KindBool
	KindBytes
	KindTime
)

// Value is a tagged parameter or column value passed positionally into
// prepared statements and returned inside result rows. Values are
// immutable after construction.
type Value struct {
	kind  ValueKind
	num   int64
	float float64
	text  string
	flag  bool
	raw   []byte
	ts    time.Time
}

// NullValue returns the null variant.
func NullValue() Value { return Value{kind: KindNull} }

// Int64Value wraps a 64-bit signed integer.
func Int64Value(v int64) Value { return Value{kind: KindInt64, num: v} }

// Float64Value wraps a double-precision float.
func Float64Value(v float64) Value { return Value{kind: KindFloat64, float: v} }

// TextValue wraps a string.
func TextValue(v string) Value { return Value{kind: KindText, text: v} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: KindBool, flag: v} }

// BytesValue wraps a raw byte sequence. The slice is not copied.
func BytesValue(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// TimeValue wraps a timestamp.
func TimeValue(v time.Time) Value { return Value{kind: KindTime, ts: v} }

// ValueOf converts a driver-reported Go value into a tagged Value
// without lossy coercion. Unknown types fall back to their string
// representation.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case int64:
		return Int64Value(x)
	case int:
		return Int64Value(int64(x))
	case float64:
		return Float64Value(x)
	case string:
		return TextValue(x)
	case bool:
		return BoolValue(x)
	case []byte:
		return BytesValue(append([]byte(nil), x...))
	case time.Time:
		return TimeValue(x)
	default:
		return TextValue(fmt.Sprint(x))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt64 returns the integer variant's payload.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return v.num, true
}

// AsFloat64 returns the float variant's payload.
func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}
	return v.float, true
}

// AsText returns the text variant's payload.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsBool returns the boolean variant's payload. Integer values of 0 and
// 1 are accepted too: SQLite has no native boolean column type.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.flag, true
	case KindInt64:
		if v.num == 0 || v.num == 1 {
			return v.num == 1, true
		}
	}
	return false, false
}

// AsBytes returns the byte-sequence variant's payload.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.raw, true
}

// AsTime returns the timestamp variant's payload.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// Driver returns the value in the representation database/sql expects
// as a statement argument.
func (v Value) Driver() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt64:
		return v.num
	case KindFloat64:
		return v.float
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	case KindBytes:
		return v.raw
	case KindTime:
		return v.ts
	}
	return nil
}

// DriverArgs converts a parameter list into positional statement
// arguments.
func DriverArgs(params []Value) []any {
	if len(params) == 0 {
		return nil
	}
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Driver()
	}
	return args
}

// String renders the value for logs and terminal output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt64:
		return strconv.FormatInt(v.num, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.raw))
	case KindTime:
		return v.ts.Format(time.RFC3339Nano)
	}
	return "NULL"
}
