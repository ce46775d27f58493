// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders the result of a traceroute run.
package report

import (
	"github.com/telekom/icmptrace/internal/traceroute"
)

// Report is the document printed by the json and yaml formats
type Report struct {
	// Target is the traced destination address
	Target string `json:"target" yaml:"target"`
	// MaxHops is the configured hop distance
	MaxHops int `json:"maxHops" yaml:"maxHops"`
	// State is the terminal state of the run
	State string `json:"state" yaml:"state"`
	// Reached is true if the last TTL got a reply
	Reached bool `json:"reached" yaml:"reached"`
	// Hops holds one entry per probed TTL
	Hops []Hop `json:"hops" yaml:"hops"`
	// Error describes the failure that aborted the run
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Hop is a single probed TTL of a report
type Hop struct {
	TTL      int    `json:"ttl" yaml:"ttl"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	Address  string `json:"address,omitempty" yaml:"address,omitempty"`
	ICMPType string `json:"icmpType,omitempty" yaml:"icmpType,omitempty"`
	Latency  string `json:"latency,omitempty" yaml:"latency,omitempty"`
}

// New creates the report of a run. err is the error the run returned, if any.
func New(res traceroute.Result, err error) Report {
	r := Report{
		Target:  res.Target.String(),
		MaxHops: res.MaxHops,
		State:   string(res.State),
		Reached: res.Reached(),
		Hops:    make([]Hop, 0, len(res.Hops)),
	}
	for _, h := range res.Hops {
		r.Hops = append(r.Hops, newHop(h))
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func newHop(h traceroute.Hop) Hop {
	hop := Hop{
		TTL:     h.TTL,
		Outcome: string(h.Outcome),
	}
	if h.Replied() {
		hop.Address = h.Addr.String()
		hop.ICMPType = h.ICMPType
		hop.Latency = h.Latency.String()
	}
	return hop
}
