package hashutil

import (
	"fmt"

	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/zeebo/blake3"
)

// Checksum returns the blake3 digest of data
func Checksum(data []byte) string {
	return fmt.Sprintf("blake3:%x", blake3.Sum256(data))
}

// CalculateFileChecksum returns the blake3 digest of a file
func CalculateFileChecksum(fs types.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}

// SameContent reports whether two files hold identical bytes
func SameContent(fs types.FS, a, b string) (bool, error) {
	sumA, err := CalculateFileChecksum(fs, a)
	if err != nil {
		return false, err
	}
	sumB, err := CalculateFileChecksum(fs, b)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}
