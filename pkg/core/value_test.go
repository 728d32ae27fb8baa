package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		in   any
		kind ValueKind
	}{
		{"nil", nil, KindNull},
		{"int64", int64(42), KindInt64},
		{"int", 42, KindInt64},
		{"float64", 3.14, KindFloat64},
		{"string", "hello", KindText},
		{"bool", true, KindBool},
		{"bytes", []byte{0x01, 0x02}, KindBytes},
		{"time", now, KindTime},
		{"unknown type falls back to text", uint16(7), KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ValueOf(tt.in).Kind())
		})
	}
}

func TestValueOfCopiesBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	v := ValueOf(src)
	src[0] = 99

	got, ok := v.AsBytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestValueAccessors(t *testing.T) {
	i, ok := Int64Value(7).AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(7), i)

	f, ok := Float64Value(1.5).AsFloat64()
	require.True(t, ok)
	assert.Equal(t, 1.5, f)

	s, ok := TextValue("x").AsText()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	// Wrong-kind access fails rather than coercing
	_, ok = TextValue("7").AsInt64()
	assert.False(t, ok)

	_, ok = Int64Value(7).AsText()
	assert.False(t, ok)
}

func TestValueAsBool(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   bool
		wantOK bool
	}{
		{"true", BoolValue(true), true, true},
		{"false", BoolValue(false), false, true},
		{"int 1 reads as true", Int64Value(1), true, true},
		{"int 0 reads as false", Int64Value(0), false, true},
		{"other ints rejected", Int64Value(2), false, false},
		{"text rejected", TextValue("true"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.AsBool()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueDriver(t *testing.T) {
	assert.Nil(t, NullValue().Driver())
	assert.Equal(t, int64(3), Int64Value(3).Driver())
	assert.Equal(t, "x", TextValue("x").Driver())
	assert.Equal(t, true, BoolValue(true).Driver())
}

func TestDriverArgs(t *testing.T) {
	assert.Nil(t, DriverArgs(nil))

	args := DriverArgs([]Value{Int64Value(1), TextValue("a"), NullValue()})
	assert.Equal(t, []any{int64(1), "a", nil}, args)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", NullValue().String())
	assert.Equal(t, "42", Int64Value(42).String())
	assert.Equal(t, "1.5", Float64Value(1.5).String())
	assert.Equal(t, "hello", TextValue("hello").String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "<3 bytes>", BytesValue([]byte{1, 2, 3}).String())
}
