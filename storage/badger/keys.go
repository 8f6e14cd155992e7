package badger

import (
	"encoding/binary"

	"github.com/chemtrace/sdsvault/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "sdsdoc"
	productIndexPrefix = "sdsprodidx"
)

// makeDocumentKey generates a key for a section document.
// Format: prefix:row:section, with row and section in BigEndian order so
// lexicographic iteration yields ascending (row, section).
func makeDocumentKey(key core.DocumentKey) []byte {
	prefix := documentPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 5 // 4 bytes for row + 1 byte for section
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint32(buf[offset:], key.Row)
	offset += 4
	buf[offset] = byte(key.Section)
	return buf
}

// makeProductIndexKey generates a composite key for the product-name index.
// Format: prefix:product\x00row:section. The NUL separator keeps products
// that are prefixes of one another from sharing a scan prefix.
func makeProductIndexKey(productName string, key core.DocumentKey) []byte {
	prefix := makePartialProductIndexKey(productName)
	prefixSize := len(prefix)
	totalSize := prefixSize + 5 // 4 bytes for row + 1 byte for section
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], key.Row)
	offset += 4
	buf[offset] = byte(key.Section)
	return buf
}

// makePartialProductIndexKey generates the scan prefix for one product.
func makePartialProductIndexKey(productName string) []byte {
	prefix := productIndexPrefix + ":"
	buf := make([]byte, 0, len(prefix)+len(productName)+1)
	buf = append(buf, prefix...)
	buf = append(buf, productName...)
	buf = append(buf, 0x00)
	return buf
}
