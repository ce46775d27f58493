// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

// Checksum returns the Internet checksum (RFC 1071) of b.
//
// The buffer is summed as big-endian 16-bit words into a 32-bit accumulator.
// An odd trailing byte is treated as the high byte of a zero-padded word.
// The carries are folded back into the low 16 bits and the one's complement
// of the result is returned. An empty buffer yields 0xffff.
func Checksum(b []byte) uint16 {
	return ^foldSum(b)
}

// validChecksum reports whether b, including its embedded checksum field,
// sums to zero after folding and complementing.
func validChecksum(b []byte) bool {
	return Checksum(b) == 0
}

// foldSum returns the folded one's-complement sum of b.
func foldSum(b []byte) uint16 {
	var sum uint32
	n := len(b)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if n%2 == 1 {
		sum += uint32(b[n-1]) << 8
	}

	// Two folds are enough for any buffer up to 64KiB,
	// the loop covers larger ones as well.
	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}
	return uint16(sum) // #nosec G115 // folded into 16 bits above
}
