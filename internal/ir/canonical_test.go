package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(IRObject{
		"z": IRInt(1),
		"a": IRString("x"),
		"m": IRBool(false),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","m":false,"z":1}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical(IRString("<a&b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	got, err := MarshalCanonical(IRString("e\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparatorLiteral(t *testing.T) {
	got, err := MarshalCanonical(IRString("a\u2028b"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))
}

func TestMarshalCanonical_EscapedBackslashKept(t *testing.T) {
	got, err := MarshalCanonical(IRString(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(got))
}

func TestMarshalCanonical_RejectsFloatAndNull(t *testing.T) {
	_, err := MarshalCanonical(IRObject{"x": nil})
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": 1.5})
	assert.Error(t, err)
}

func TestMarshalCanonical_NestedGoValues(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"layers": []any{
			map[string]any{"id": ItemID("b"), "z": 1},
			map[string]any{"id": "a", "z": int64(0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"layers":[{"id":"b","z":1},{"id":"a","z":0}]}`, string(got))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, IRString("640"), Decimal(640))
	assert.Equal(t, IRString("0.1"), Decimal(0.1))
	assert.Equal(t, IRString("-12.5"), Decimal(-12.5))
}

func TestFrameDigest_Stable(t *testing.T) {
	frame := IRObject{"playhead": Decimal(1.5), "layers": IRArray{IRString("a")}}
	d1, err := FrameDigest(frame)
	require.NoError(t, err)
	d2, err := FrameDigest(IRObject{"layers": IRArray{IRString("a")}, "playhead": Decimal(1.5)})
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "key order must not change the digest")
	assert.Len(t, d1, 64)

	d3, err := FrameDigest(IRObject{"playhead": Decimal(1.6), "layers": IRArray{IRString("a")}})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestNormalizeSource(t *testing.T) {
	assert.Equal(t, "caf\u00e9.mp4", NormalizeSource("cafe\u0301.mp4"))
}
