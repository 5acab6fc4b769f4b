package document

import (
	"fmt"
	"os"

	"github.com/zeebo/xxh3"
)

// Checksum вычисляет xxh3 (64-bit) хеш содержимого документа.
// Используется для определения неизмененных файлов при повторном импорте.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// ChecksumFile вычисляет хеш содержимого файла по пути
func ChecksumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}
	return Checksum(data), nil
}
