package content

import (
	"io"
	"os"
)

// binarySampleSize is how many leading bytes are examined when classifying.
const binarySampleSize = 1024

// controlByteThreshold is the control-byte fraction above which a sample
// counts as binary.
const controlByteThreshold = 0.30

// IsBinary reports whether data looks like binary rather than text. Only the
// first 1024 bytes are examined: any null byte means binary, and so does a
// control-byte share (excluding tab, LF, CR) above 30%.
func IsBinary(data []byte) bool {
	if len(data) > binarySampleSize {
		data = data[:binarySampleSize]
	}
	if len(data) == 0 {
		return false
	}

	controlCount := 0
	for _, b := range data {
		if b == 0x00 {
			return true
		}
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			controlCount++
		}
	}
	return float64(controlCount)/float64(len(data)) > controlByteThreshold
}

// SniffBinary classifies a file on disk by sampling its leading bytes.
// Files that cannot be opened or read are reported binary, so callers
// refuse them rather than risk garbling.
func SniffBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	sample := make([]byte, binarySampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return IsBinary(sample[:n])
}
