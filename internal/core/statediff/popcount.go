package statediff

import "fmt"

// popcountTable[v] 为 v 中置位的位数
var popcountTable [256]uint8

func init() {
	for v := 1; v < len(popcountTable); v++ {
		popcountTable[v] = popcountTable[v>>1] + uint8(v&1)
	}
}

// PopCount 返回字节中置位的位数
func PopCount(b byte) int {
	return int(popcountTable[b])
}

// HammingDistance 返回两个等长缓冲区之间不同的位数
func HammingDistance(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	return hamming(a, b), nil
}

func hamming(a, b []byte) int {
	bits := 0
	for i := range a {
		bits += int(popcountTable[a[i]^b[i]])
	}
	return bits
}
