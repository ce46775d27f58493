// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/binary"

	"golang.org/x/net/ipv4"
)

const (
	// icmpHeaderLen is the length of the ICMP echo header:
	// type, code, checksum, identifier and sequence number.
	icmpHeaderLen = 8
	// echoPayloadLen is the length of the zero-filled echo payload.
	// Header and payload together match the 28 bytes of a classic struct icmp.
	echoPayloadLen = 20
	// echoPacketLen is the total length of an echo request built by [BuildEchoRequest].
	echoPacketLen = icmpHeaderLen + echoPayloadLen
)

// Offsets of the echo header fields.
const (
	offType     = 0
	offCode     = 1
	offChecksum = 2
	offID       = 4
	offSeq      = 6
)

// BuildEchoRequest returns an ICMP Echo Request with the given identifier
// and the ttl as its sequence number.
//
// The checksum is computed over the whole packet while the checksum field is zero,
// then written into it. The same inputs always produce the same bytes.
func BuildEchoRequest(id uint16, ttl int) []byte {
	b := make([]byte, echoPacketLen)
	b[offType] = byte(ipv4.ICMPTypeEcho)
	b[offCode] = 0
	binary.BigEndian.PutUint16(b[offID:], id)
	binary.BigEndian.PutUint16(b[offSeq:], uint16(ttl)) // #nosec G115 // ttl is bounded by maxTTL
	setChecksum(b)
	return b
}

// setChecksum zeroes the checksum field of the ICMP message b and
// writes the freshly computed checksum into it.
// It has to be called after every modification of b.
func setChecksum(b []byte) {
	b[offChecksum], b[offChecksum+1] = 0, 0
	binary.BigEndian.PutUint16(b[offChecksum:], Checksum(b))
}
