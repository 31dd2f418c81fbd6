package token

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/gopostscript/postforge/internal/bytestream"
	"github.com/gopostscript/postforge/internal/object"
	"github.com/gopostscript/postforge/internal/sysnames"
)

// Binary object sequence tags, per spec.md §4.2 "Binary tokens". Real
// numbers decode as little-endian IEEE 754, matching the native-float byte
// order this implementation standardizes on (an Open Question resolved in
// DESIGN.md: spec.md leaves the host byte order unspecified, and Intel/ARM
// hosts -- this implementation's only realistic targets -- are both
// little-endian).
const (
	binNull     = 128
	binInt32    = 129
	binReal32   = 130
	binReal64   = 131
	binBoolTrue = 132
	binBoolFalse = 133
	binStringHdr = 134
	binSysName  = 135
	binLitName  = 136
	binExecName = 137
)

// DecodeOne reads one scalar binary-encoded object from r, per spec.md
// §4.2 "Binary tokens". Composite binary object sequences (nested arrays
// written with binary headers) are not implemented: the producers that
// would emit them (a font/glyph engine, an image decoder) are out of
// scope, so only scalar forms are supported here.
func DecodeOne(r bytestream.Reader) (object.Object, bool, error) {
	tagByte, ok := r.ReadByte()
	if !ok {
		return object.Object{}, false, nil
	}
	switch tagByte {
	case binNull:
		return object.NullObject, true, nil
	case binInt32:
		b, err := readN(r, 4)
		if err != nil {
			return object.Object{}, false, err
		}
		return object.NewInt(int64(int32(binary.LittleEndian.Uint32(b)))), true, nil
	case binReal32:
		b, err := readN(r, 4)
		if err != nil {
			return object.Object{}, false, err
		}
		return object.NewReal(float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))), true, nil
	case binReal64:
		b, err := readN(r, 8)
		if err != nil {
			return object.Object{}, false, err
		}
		return object.NewReal(math.Float64frombits(binary.LittleEndian.Uint64(b))), true, nil
	case binBoolTrue:
		return object.NewBool(true), true, nil
	case binBoolFalse:
		return object.NewBool(false), true, nil
	case binSysName, binSysName + 1:
		b, err := readN(r, 2)
		if err != nil {
			return object.Object{}, false, err
		}
		idx := int(binary.LittleEndian.Uint16(b))
		if idx < 0 || idx >= sysnames.Count {
			return object.Object{}, false, errors.Errorf("token: system name index %d out of range", idx)
		}
		return object.NameObject(uint64(idx), tagByte == binSysName+1), true, nil
	default:
		return object.Object{}, false, errors.Errorf("token: unknown binary tag %d", tagByte)
	}
}

// DecodeString reads a binary string header (tag 134, a little-endian
// uint32 length, then that many raw bytes).
func DecodeString(r bytestream.Reader) ([]byte, error) {
	tagByte, ok := r.ReadByte()
	if !ok || tagByte != binStringHdr {
		return nil, errors.New("token: expected binary string header")
	}
	lb, err := readN(r, 4)
	if err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lb)
	return readN(r, int(n))
}

func readN(r bytestream.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, ok := r.ReadByte()
		if !ok {
			return nil, errors.New("token: truncated binary object")
		}
		buf[i] = b
	}
	return buf, nil
}

// EncodeInt appends the binary encoding of an Int32-range integer, for
// `writeobject`.
func EncodeInt(v int32) []byte {
	b := make([]byte, 5)
	b[0] = binInt32
	binary.LittleEndian.PutUint32(b[1:], uint32(v))
	return b
}

// EncodeReal appends the binary encoding of a real as a 64-bit IEEE float.
func EncodeReal(v float64) []byte {
	b := make([]byte, 9)
	b[0] = binReal64
	binary.LittleEndian.PutUint64(b[1:], math.Float64bits(v))
	return b
}

// EncodeBool appends the binary encoding of a boolean.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{binBoolTrue}
	}
	return []byte{binBoolFalse}
}

// EncodeSysName appends the binary encoding of a name already present in
// the system name table.
func EncodeSysName(idx int, executable bool) ([]byte, error) {
	if idx < 0 || idx >= sysnames.Count {
		return nil, errors.Errorf("token: name index %d out of range", idx)
	}
	tag := byte(binSysName)
	if executable {
		tag = binSysName + 1
	}
	b := make([]byte, 3)
	b[0] = tag
	binary.LittleEndian.PutUint16(b[1:], uint16(idx))
	return b, nil
}
