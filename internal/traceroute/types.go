// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	// maxTTL is the largest value the IPv4 TTL field can hold.
	maxTTL = 255
	// DefaultTimeout is the time to wait for a reply to a single probe.
	DefaultTimeout = time.Second
	// DefaultListenAddress is the local address the raw socket is bound to.
	DefaultListenAddress = "0.0.0.0"
)

// Options contains the optional configuration for the traceroute.
type Options struct {
	// MaxTTL is the hop distance of the destination and the last TTL probed.
	MaxTTL int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout is the time to wait for a reply to each probe.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// ListenAddress is the local IPv4 address the raw socket is bound to.
	ListenAddress string `json:"listenAddress" yaml:"listenAddress" mapstructure:"listenAddress"`
}

// withDefaults returns a copy of the options with zero values replaced by defaults.
func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ListenAddress == "" {
		o.ListenAddress = DefaultListenAddress
	}
	return o
}

// Validate checks the options for values that cannot be used as a TTL range.
func (o Options) Validate() error {
	if o.MaxTTL < 1 || o.MaxTTL > maxTTL {
		return fmt.Errorf("%w: max hops %d, must be between 1 and %d", ErrInvalidOptions, o.MaxTTL, maxTTL)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s must not be negative", ErrInvalidOptions, o.Timeout)
	}
	return nil
}

// Target is the destination of the traceroute.
type Target struct {
	// Address is the dotted-decimal IPv4 address to trace to.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
}

func (t Target) String() string {
	return t.Address
}

// Validate checks that the target address is a dotted-decimal IPv4 address.
func (t Target) Validate() error {
	_, err := t.ToAddr()
	return err
}

// ToAddr parses the target into the address the probes are sent to.
func (t Target) ToAddr() (*net.IPAddr, error) {
	if t.Address == "" {
		return nil, fmt.Errorf("%w: address cannot be empty", ErrInvalidTarget)
	}
	ip := net.ParseIP(t.Address)
	if ip == nil {
		return nil, fmt.Errorf("%w: %q is not an IP address", ErrInvalidTarget, t.Address)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidTarget, t.Address)
	}
	return &net.IPAddr{IP: ip4}, nil
}

// Outcome is the classification of a single probe.
type Outcome string

const (
	// OutcomeReplied means a datagram arrived within the timeout.
	OutcomeReplied Outcome = "replied"
	// OutcomeTimedOut means no datagram arrived within the timeout.
	OutcomeTimedOut Outcome = "timeout"
)

// State is the terminal state of a traceroute run.
type State string

const (
	// StateDone means a reply was received at the last TTL.
	// The replying address is not compared with the target.
	StateDone State = "done"
	// StateExhausted means every TTL was probed without a reply at the last one.
	StateExhausted State = "exhausted"
	// StateAborted means a fatal transport error or a cancellation stopped the run.
	StateAborted State = "aborted"
)

// Hop is the result of probing one TTL. It is produced once per TTL.
type Hop struct {
	// TTL is the time to live the probe was sent with.
	TTL int `json:"ttl" yaml:"ttl"`
	// Outcome tells whether a reply arrived.
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	// Addr is the source address of the reply. It is empty on timeout.
	Addr HopAddress `json:"addr" yaml:"addr"`
	// ICMPType is the decoded type of the reply, if it could be decoded.
	ICMPType string `json:"icmpType,omitempty" yaml:"icmpType,omitempty"`
	// Latency is the time between sending the probe and receiving the reply.
	Latency time.Duration `json:"-" yaml:"-"`
}

func (h Hop) MarshalJSON() ([]byte, error) {
	type alias Hop
	return json.Marshal(&struct {
		Latency string `json:"latency"`
		alias
	}{
		Latency: h.Latency.String(),
		alias:   alias(h),
	})
}

// Replied reports whether the probe was answered.
func (h Hop) Replied() bool {
	return h.Outcome == OutcomeReplied
}

func (h Hop) String() string {
	if !h.Replied() {
		return fmt.Sprintf("%-3d  %-15s  %s", h.TTL, "*", "timeout")
	}
	return fmt.Sprintf("%-3d  %-15s  %s", h.TTL, h.Addr.String(), h.Latency.String())
}

// HopAddress is the address a reply came from.
type HopAddress struct {
	IP string `json:"ip" yaml:"ip"`
}

func newHopAddress(addr net.Addr) HopAddress {
	ip := ipFromAddr(addr)
	if ip == nil {
		return HopAddress{}
	}
	return HopAddress{IP: ip.String()}
}

func (a HopAddress) String() string {
	return a.IP
}

// Result is the outcome of a whole traceroute run.
type Result struct {
	// Target is the destination that was traced.
	Target Target `json:"target" yaml:"target"`
	// MaxHops is the configured hop distance.
	MaxHops int `json:"maxHops" yaml:"maxHops"`
	// Hops holds one entry per probed TTL in increasing TTL order.
	Hops []Hop `json:"hops" yaml:"hops"`
	// State is the terminal state of the run.
	State State `json:"state" yaml:"state"`
}

// Reached reports whether the run ended with a reply at the last TTL.
func (r Result) Reached() bool {
	return r.State == StateDone
}

// Last returns the last hop of the run.
func (r Result) Last() (Hop, bool) {
	if len(r.Hops) == 0 {
		return Hop{}, false
	}
	return r.Hops[len(r.Hops)-1], true
}
