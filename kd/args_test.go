package kd

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/neighbourhood/vector"
)

func TestDecodeMatchArg(t *testing.T) {
	blob, err := vector.EncodePoint([]float32{1, -2, 3.5})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		arg      interface{}
		expected []float32
		wantErr  bool
	}{
		{name: "blob", arg: blob, expected: []float32{1, -2, 3.5}},
		{name: "json", arg: "[1, -2, 3.5]", expected: []float32{1, -2, 3.5}},
		{name: "csv", arg: "1,-2, 3.5", expected: []float32{1, -2, 3.5}},
		{name: "base64", arg: base64.StdEncoding.EncodeToString(blob), expected: []float32{1, -2, 3.5}},
		{name: "single value", arg: "4", expected: []float32{4}},
		{name: "empty", arg: "  ", wantErr: true},
		{name: "garbage", arg: "a,b", wantErr: true},
		{name: "number", arg: int64(3), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeMatchArg(tc.arg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestScalarArgs(t *testing.T) {
	f, err := asFloat(int64(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)
	f, err = asFloat("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
	_, err = asFloat(nil)
	assert.Error(t, err)

	k, err := asInt(int64(5))
	require.NoError(t, err)
	assert.Equal(t, 5, k)
	k, err = asInt(3.0)
	require.NoError(t, err)
	assert.Equal(t, 3, k)
	_, err = asInt(2.5)
	assert.Error(t, err)

	s, err := asString([]byte("ds"))
	require.NoError(t, err)
	assert.Equal(t, "ds", s)
	_, err = asString(nil)
	assert.Error(t, err)
}
