// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the routers between this host and an IPv4
// destination by sending ICMP Echo Requests with increasing TTL values over
// a raw socket and recording which address answers each of them.
//
// It exposes a [Client] running one traceroute per call with [Options].
// Under the hood a session builds an echo request per TTL ([BuildEchoRequest],
// checksummed with [Checksum]), sends it with the TTL set on the IP layer,
// waits a bounded time for any datagram and classifies the hop as replied or
// timed out. TTLs are probed one after another, each exactly once.
//
// Key properties:
//   - A timeout only ends the current hop, every other socket error aborts the run
//     with a [TransportError]
//   - The raw socket is released on every exit path of a run
//   - Any ICMP message arriving during the wait is taken as the hop's reply,
//     identifier and sequence number are not matched
//   - The run is considered done when the last TTL gets a reply,
//     the replying address is not compared with the target
//   - OpenTelemetry spans and events for every hop
//
// Typical usage:
//
//	client := traceroute.NewClient()
//	opts   := &traceroute.Options{MaxTTL: 30, Timeout: time.Second}
//	res, err := client.Run(ctx, traceroute.Target{Address: "8.8.8.8"}, opts, nil)
//	// res.Hops holds one Hop per probed TTL
package traceroute
