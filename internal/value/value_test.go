package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type fakeObject struct {
	val cty.Value
}

func (f *fakeObject) HasValue() bool { return f.val != cty.NilVal && !f.val.IsNull() }

func (f *fakeObject) Value() (cty.Value, error) {
	if f.val == cty.NilVal {
		return cty.NilVal, errors.New("empty")
	}
	return f.val, nil
}

func (f *fakeObject) SetValue(v cty.Value) error {
	f.val = v
	return nil
}

func (f *fakeObject) Display() string { return "<object>" }

type fakeRuntime struct {
	revived []string
}

func (r *fakeRuntime) Revive(content string) (Object, error) {
	r.revived = append(r.revived, content)
	return &fakeObject{val: cty.StringVal(content)}, nil
}

func TestPrimitive_Display(t *testing.T) {
	assert.Equal(t, "true", NewBool(true).Display())
	assert.Equal(t, "42", NewInt(42).Display())
	assert.Equal(t, "1.5", NewFloat(1.5).Display())
	assert.Equal(t, "hello", NewString("hello").Display())
}

func TestPrimitive_SetCoerces(t *testing.T) {
	t.Run("string to int", func(t *testing.T) {
		b := NewInt(0)
		require.NoError(t, b.Set(cty.StringVal("12")))
		assert.Equal(t, "12", b.Display())
		assert.True(t, b.Get().Type().Equals(cty.Number))
	})

	t.Run("fraction rejected for int", func(t *testing.T) {
		b := NewInt(3)
		err := b.Set(cty.NumberFloatVal(2.5))
		assert.ErrorIs(t, err, ErrNotWhole)
		assert.Equal(t, "3", b.Display(), "failed set must not change the value")
	})

	t.Run("bool from string", func(t *testing.T) {
		b := NewBool(false)
		require.NoError(t, b.Set(cty.StringVal("true")))
		assert.True(t, b.Get().True())
	})

	t.Run("incompatible type", func(t *testing.T) {
		b := NewBool(false)
		assert.Error(t, b.Set(cty.ListValEmpty(cty.String)))
	})
}

func TestEmpty(t *testing.T) {
	b, err := Empty(KindFloat)
	require.NoError(t, err)
	assert.False(t, b.HasValue())
	assert.Equal(t, "", b.Display())

	_, err = Empty(KindExternal)
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	cases := []struct {
		name string
		b    Binding
	}{
		{"bool", NewBool(true)},
		{"int", NewInt(-7)},
		{"float", NewFloat(0.25)},
		{"string", NewString("a / b")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content, ok := Encode(tc.b)
			require.True(t, ok)

			got, err := Decode(tc.b.Kind(), content, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.b.Kind(), got.Kind())
			assert.Equal(t, tc.b.Display(), got.Display())
		})
	}
}

func TestEncode_NothingToWrite(t *testing.T) {
	_, ok := Encode(nil)
	assert.False(t, ok)

	empty, err := Empty(KindString)
	require.NoError(t, err)
	_, ok = Encode(empty)
	assert.False(t, ok)
}

func TestDecode_BadContent(t *testing.T) {
	_, err := Decode(KindInt, "many", nil)
	assert.ErrorContains(t, err, "decode int content")
}

func TestDecode_External(t *testing.T) {
	t.Run("detached without runtime", func(t *testing.T) {
		b, err := Decode(KindExternal, "[1, 2]", nil)
		require.NoError(t, err)
		assert.Equal(t, KindExternal, b.Kind())
		assert.Equal(t, "[1, 2]", b.Display())

		content, ok := Encode(b)
		assert.True(t, ok)
		assert.Equal(t, "[1, 2]", content)
	})

	t.Run("revived by runtime", func(t *testing.T) {
		rt := &fakeRuntime{}
		b, err := Decode(KindExternal, "obj#1", rt)
		require.NoError(t, err)
		assert.Equal(t, []string{"obj#1"}, rt.revived)
		assert.Equal(t, "<object>", b.Display())
		assert.IsType(t, &fakeObject{}, ObjectOf(b))
	})
}

func TestExternal_NilObject(t *testing.T) {
	b := NewExternal(nil)
	assert.False(t, b.HasValue())
	assert.Equal(t, "", b.Display())
	assert.Equal(t, cty.DynamicVal, b.Get())
	assert.Error(t, b.Set(cty.True))
}

func TestFromGo(t *testing.T) {
	b, err := FromGo(3)
	require.NoError(t, err)
	assert.Equal(t, KindInt, b.Kind())

	b, err = FromGo(2.5)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, b.Kind())

	b, err = FromGo("x")
	require.NoError(t, err)
	assert.Equal(t, KindString, b.Kind())

	b, err = FromGo(true)
	require.NoError(t, err)
	assert.Equal(t, KindBool, b.Kind())

	_, err = FromGo([]string{"a"})
	assert.Error(t, err)
}
