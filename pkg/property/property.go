package property

import (
	"bytes"
	"fmt"
	"strings"

	"kvdb/pkg/dberrors"
	"kvdb/pkg/jsonval"
)

/*
	Record layout (RecordSize bytes, no header)

	000: key   [KeySize]byte    // key bytes, NUL, zero padding
	020: value [ValueSize]byte  // compact JSON text, NUL, zero padding
	3f0: end
*/

const (
	KeySize    = 32
	ValueSize  = 976
	RecordSize = KeySize + ValueSize

	// one byte of each region is reserved for the terminator
	MaxKeyLen   = KeySize - 1
	MaxValueLen = ValueSize - 1
)

// Property is a single key-value pair.
type Property struct {
	Key   string
	Value jsonval.Value
}

// New validates the pair against the record limits.
func New(key string, value jsonval.Value) (*Property, error) {
	if err := Validate(key, value); err != nil {
		return nil, err
	}
	return &Property{Key: key, Value: value}, nil
}

// Validate reports whether key and value fit in a record.
// Oversized input is rejected, never truncated.
func Validate(key string, value jsonval.Value) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	switch {
	case value.IsZero():
		return fmt.Errorf("%w: empty value", dberrors.ErrInvalidJSON)
	case value.Len() > MaxValueLen:
		return fmt.Errorf("%w: value is %d bytes, limit %d", dberrors.ErrValueTooLong, value.Len(), MaxValueLen)
	}
	return nil
}

// ValidateKey checks the key half of Validate.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", dberrors.ErrInvalidArgument)
	case len(key) > MaxKeyLen:
		return fmt.Errorf("%w: key is %d bytes, limit %d", dberrors.ErrKeyTooLong, len(key), MaxKeyLen)
	case strings.IndexByte(key, 0) >= 0:
		return fmt.Errorf("%w: key contains NUL byte", dberrors.ErrInvalidArgument)
	}
	return nil
}

// Encode returns the fixed-size record for the pair.
func Encode(key string, value jsonval.Value) ([]byte, error) {
	rec := make([]byte, RecordSize)
	if err := EncodeTo(rec, key, value); err != nil {
		return nil, err
	}
	return rec, nil
}

// EncodeTo writes the record into dst[:RecordSize]. Padding is zero-filled.
// dst is left untouched if the pair does not validate.
func EncodeTo(dst []byte, key string, value jsonval.Value) error {
	if len(dst) < RecordSize {
		return fmt.Errorf("%w: buffer is %d bytes, need %d", dberrors.ErrInvalidArgument, len(dst), RecordSize)
	}
	if err := Validate(key, value); err != nil {
		return err
	}

	rec := dst[:RecordSize]
	clear(rec)
	copy(rec[:KeySize], key)
	copy(rec[KeySize:], value.String())

	return nil
}

// Decode parses one record. Padding after each terminator is ignored.
func Decode(rec []byte) (Property, error) {
	if len(rec) != RecordSize {
		return Property{}, fmt.Errorf("%w: record is %d bytes, want %d", dberrors.ErrMalformedRecord, len(rec), RecordSize)
	}

	keyEnd := bytes.IndexByte(rec[:KeySize], 0)
	if keyEnd < 0 {
		return Property{}, fmt.Errorf("%w: key not terminated", dberrors.ErrMalformedRecord)
	}
	if keyEnd == 0 {
		return Property{}, fmt.Errorf("%w: empty key", dberrors.ErrMalformedRecord)
	}

	region := rec[KeySize:]
	valEnd := bytes.IndexByte(region, 0)
	if valEnd < 0 {
		return Property{}, fmt.Errorf("%w: value not terminated", dberrors.ErrMalformedRecord)
	}

	value, err := jsonval.Parse(region[:valEnd])
	if err != nil {
		return Property{}, fmt.Errorf("decode value of %q: %w", rec[:keyEnd], err)
	}

	return Property{Key: string(rec[:keyEnd]), Value: value}, nil
}

func (p Property) MarshalBinary() ([]byte, error) {
	return Encode(p.Key, p.Value)
}

func (p *Property) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}
