package protocol

import (
	"encoding/binary"
	"fmt"
)

// PackWords packs buf into little-endian 32-bit words, first byte in bits 0-7.
// len(buf) must be a multiple of WordSize.
func PackWords(buf []byte) ([]uint32, error) {
	if len(buf)%WordSize != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d", len(buf), WordSize)
	}

	words := make([]uint32, len(buf)/WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*WordSize:])
	}
	return words, nil
}

// UnpackWords is the inverse of PackWords.
func UnpackWords(words []uint32) []byte {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*WordSize:], w)
	}
	return buf
}

// PadChunk places data at lead inside a buffer of size bytes filled with ErasedByte.
// Bytes of data past the end of the buffer are dropped.
func PadChunk(data []byte, lead, size int) []byte {
	chunk := make([]byte, size)
	for i := range chunk {
		chunk[i] = ErasedByte
	}
	if lead < size {
		copy(chunk[lead:], data)
	}
	return chunk
}
