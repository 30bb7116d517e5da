package property

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvdb/pkg/dberrors"
	"kvdb/pkg/jsonval"
)

// stringOfLen renders to a JSON string of exactly n bytes (n >= 2).
func stringOfLen(n int) jsonval.Value {
	return jsonval.MustParse(`"` + strings.Repeat("x", n-2) + `"`)
}

func TestLayoutConstants(t *testing.T) {
	assert.Equal(t, 1008, RecordSize)
	assert.Equal(t, 31, MaxKeyLen)
	assert.Equal(t, 975, MaxValueLen)
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"color", `"red"`},
		{"k", `1`},
		{"nested", `{"a":[1,{"b":null}],"c":"d e"}`},
		{"unicode-ключ", `"значение"`},
		{strings.Repeat("k", MaxKeyLen), `true`},
		{"max", stringOfLen(MaxValueLen).String()},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			v := jsonval.MustParse(tc.value)

			rec, err := Encode(tc.key, v)
			require.NoError(t, err)
			require.Len(t, rec, RecordSize)

			p, err := Decode(rec)
			require.NoError(t, err)
			assert.Equal(t, tc.key, p.Key)
			assert.Equal(t, v.String(), p.Value.String())
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	rec, err := Encode("ab", jsonval.MustParse(`[1]`))
	require.NoError(t, err)

	assert.Equal(t, []byte("ab\x00"), rec[:3])
	assert.Equal(t, make([]byte, KeySize-2), rec[2:KeySize], "key padding is zero")
	assert.Equal(t, []byte("[1]\x00"), rec[KeySize:KeySize+4])
	assert.Equal(t, make([]byte, ValueSize-3), rec[KeySize+3:], "value padding is zero")
}

func TestEncodeToOverwritesStaleBytes(t *testing.T) {
	dst := bytes.Repeat([]byte{0xff}, RecordSize)
	require.NoError(t, EncodeTo(dst, "k", jsonval.MustParse(`1`)))

	p, err := Decode(dst)
	require.NoError(t, err)
	assert.Equal(t, "k", p.Key)
	assert.Zero(t, dst[RecordSize-1])
}

func TestSizeLimits(t *testing.T) {
	_, err := Encode(strings.Repeat("a", KeySize), jsonval.MustParse(`1`))
	assert.ErrorIs(t, err, dberrors.ErrKeyTooLong)

	_, err = Encode("k", stringOfLen(ValueSize))
	assert.ErrorIs(t, err, dberrors.ErrValueTooLong)

	_, err = Encode("k", stringOfLen(MaxValueLen))
	assert.NoError(t, err)

	_, err = Encode("", jsonval.MustParse(`1`))
	assert.ErrorIs(t, err, dberrors.ErrInvalidArgument)

	_, err = Encode("a\x00b", jsonval.MustParse(`1`))
	assert.ErrorIs(t, err, dberrors.ErrInvalidArgument)

	_, err = Encode("k", jsonval.Value{})
	assert.ErrorIs(t, err, dberrors.ErrInvalidJSON)

	err = EncodeTo(make([]byte, RecordSize-1), "k", jsonval.MustParse(`1`))
	assert.ErrorIs(t, err, dberrors.ErrInvalidArgument)
}

func TestEncodeToLeavesDstOnError(t *testing.T) {
	dst := bytes.Repeat([]byte{0xaa}, RecordSize)
	err := EncodeTo(dst, strings.Repeat("a", 40), jsonval.MustParse(`1`))
	require.ErrorIs(t, err, dberrors.ErrKeyTooLong)
	assert.Equal(t, bytes.Repeat([]byte{0xaa}, RecordSize), dst)
}

func TestDecodeIgnoresPadding(t *testing.T) {
	rec, err := Encode("key", jsonval.MustParse(`{"a":1}`))
	require.NoError(t, err)

	for i := 4; i < KeySize; i++ {
		rec[i] = byte(i)
	}
	for i := KeySize + 8; i < RecordSize; i++ {
		rec[i] = 'Z'
	}

	p, err := Decode(rec)
	require.NoError(t, err)
	assert.Equal(t, "key", p.Key)
	assert.Equal(t, `{"a":1}`, p.Value.String())
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode("key", jsonval.MustParse(`1`))
	require.NoError(t, err)

	t.Run("short", func(t *testing.T) {
		_, err := Decode(valid[:RecordSize-1])
		assert.ErrorIs(t, err, dberrors.ErrMalformedRecord)
	})

	t.Run("key not terminated", func(t *testing.T) {
		rec := bytes.Clone(valid)
		copy(rec, bytes.Repeat([]byte{'k'}, KeySize))
		_, err := Decode(rec)
		assert.ErrorIs(t, err, dberrors.ErrMalformedRecord)
	})

	t.Run("empty key", func(t *testing.T) {
		rec := bytes.Clone(valid)
		rec[0] = 0
		_, err := Decode(rec)
		assert.ErrorIs(t, err, dberrors.ErrMalformedRecord)
	})

	t.Run("value not terminated", func(t *testing.T) {
		rec := bytes.Clone(valid)
		copy(rec[KeySize:], bytes.Repeat([]byte{' '}, ValueSize))
		_, err := Decode(rec)
		assert.ErrorIs(t, err, dberrors.ErrMalformedRecord)
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := bytes.Clone(valid)
		copy(rec[KeySize:], "{oops\x00")
		_, err := Decode(rec)
		assert.ErrorIs(t, err, dberrors.ErrInvalidJSON)
	})

	t.Run("empty value", func(t *testing.T) {
		rec := bytes.Clone(valid)
		rec[KeySize] = 0
		_, err := Decode(rec)
		assert.ErrorIs(t, err, dberrors.ErrInvalidJSON)
	})
}

func TestBinaryMarshaler(t *testing.T) {
	p, err := New("k", jsonval.MustParse(`"v"`))
	require.NoError(t, err)

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	var got Property
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, "k", got.Key)
	assert.Equal(t, `"v"`, got.Value.String())

	_, err = New(strings.Repeat("x", 32), jsonval.MustParse(`1`))
	assert.ErrorIs(t, err, dberrors.ErrKeyTooLong)
}
