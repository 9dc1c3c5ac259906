package facevec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodedSize is the exact byte length of an encoded feature vector.
const EncodedSize = Dim * 4

// Encode serializes a feature vector as raw little-endian 32-bit floats.
func Encode(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode deserializes a feature vector from raw little-endian 32-bit
// floats. Anything that is not exactly Dim floats is a decode error;
// callers treat such stored values as absent and re-extract.
func Decode(data []byte) ([]float32, error) {
	if len(data) != EncodedSize {
		return nil, fmt.Errorf("vector data must be %d bytes, got %d", EncodedSize, len(data))
	}

	vec := make([]float32, Dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
