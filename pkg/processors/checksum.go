// File: pkg/processors/checksum.go

package processors

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/xxh3"
)

// ComputeChecksum вычисляет xxh3 (64-bit) хеш данных и возвращает hex-encoded строку.
// Используется как отпечаток загруженного CSV и как ETag страницы.
func ComputeChecksum(data []byte) string {
	h := xxh3.Hash(data)
	return hex.EncodeToString(uint64ToBytes(h))
}

// ValidateChecksum проверяет соответствие данных ожидаемому хешу.
func ValidateChecksum(data []byte, expectedHash string) error {
	actual := ComputeChecksum(data)
	if actual != expectedHash {
		return fmt.Errorf(
			"checksum validation failed: expected %s, got %s",
			expectedHash, actual,
		)
	}
	return nil
}

// uint64ToBytes конвертирует uint64 в байтовый массив (big-endian).
func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
