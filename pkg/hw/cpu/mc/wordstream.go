package mc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Writes words as a flat sequence of big endian 32 bit values, no header
func WriteWords(w io.Writer, words []uint32) error {
	if err := binary.Write(w, binary.BigEndian, words); err != nil {
		return fmt.Errorf("error writing %v words: %w", len(words), err)
	}

	return nil
}

// Reads up to count big endian words (all of them if count is negative). A trailing
// incomplete word is ignored
func ReadWords(r io.Reader, count int) ([]uint32, error) {
	var (
		words  []uint32
		buffer [4]byte
	)

	for count < 0 || len(words) < count {
		if _, err := io.ReadFull(r, buffer[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}

			return words, fmt.Errorf("error reading word %v: %w", len(words), err)
		}

		words = append(words, binary.BigEndian.Uint32(buffer[:]))
	}

	return words, nil
}
