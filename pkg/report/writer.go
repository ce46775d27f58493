// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/telekom/icmptrace/internal/traceroute"
	"gopkg.in/yaml.v3"
)

// TextWriter prints hops in the line format of the text output
type TextWriter struct {
	w io.Writer
}

// NewTextWriter returns a TextWriter printing to w
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteHop prints the line of a single hop
func (t *TextWriter) WriteHop(h traceroute.Hop) error {
	var err error
	if h.Replied() {
		_, err = fmt.Fprintf(t.w, "TTL=%d, IP address=%s\n", h.TTL, h.Addr)
	} else {
		_, err = fmt.Fprintf(t.w, "No response at TTL=%d\n", h.TTL)
	}
	return err
}

// WriteSummary prints the confirmation line if the run reached its last TTL
func (t *TextWriter) WriteSummary(res traceroute.Result) error {
	if !res.Reached() {
		return nil
	}
	last, ok := res.Last()
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "Found router at %d hops: %s\n", last.TTL, last.Addr)
	return err
}

// Write prints the complete result of a run in the given format.
// err is the error the run returned; the text format leaves it to the caller.
func Write(w io.Writer, format Format, res traceroute.Result, err error) error {
	switch format {
	case TEXT:
		tw := NewTextWriter(w)
		for _, h := range res.Hops {
			if werr := tw.WriteHop(h); werr != nil {
				return werr
			}
		}
		return tw.WriteSummary(res)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(New(res, err))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if werr := enc.Encode(New(res, err)); werr != nil {
			return werr
		}
		return enc.Close()
	default:
		return format.Validate()
	}
}
