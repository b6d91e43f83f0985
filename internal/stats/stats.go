// Package stats computes aggregate statistics over fetched call records.
//
// Summarize is a pure function over an immutable record slice:
//
//	summary := stats.Summarize(calls)
//	fmt.Print(summary.Render())
//
// Nothing here touches the network or disk; the CLI loads records through
// the store package and hands them in.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/calltools/callrail-exporter/internal/model"
)

// Summary holds aggregate counts over one set of call records.
type Summary struct {
	TotalCalls    int
	Answered      int
	Missed        int
	Voicemails    int
	Inbound       int
	Outbound      int
	WithRecording int

	TotalDuration   time.Duration
	AverageDuration time.Duration

	UniqueCallers int

	// FirstCall and LastCall bound the records' start times. Zero when no
	// record carried a timestamp.
	FirstCall time.Time
	LastCall  time.Time

	// BySource counts calls per attributed marketing source. Calls with
	// no attribution are keyed under "(none)".
	BySource map[string]int
}

// Summarize computes a Summary over the given records.
func Summarize(calls []model.CallRecord) Summary {
	s := Summary{
		TotalCalls: len(calls),
		BySource:   make(map[string]int),
	}

	callers := make(map[string]struct{})
	var totalSeconds int

	for _, call := range calls {
		switch {
		case call.Answered:
			s.Answered++
		case call.Voicemail:
			s.Voicemails++
		default:
			s.Missed++
		}

		switch call.Direction {
		case model.DirectionInbound:
			s.Inbound++
		case model.DirectionOutbound:
			s.Outbound++
		}

		if call.HasRecording {
			s.WithRecording++
		}

		totalSeconds += call.Duration

		if call.CustomerPhone != "" {
			callers[call.CustomerPhone] = struct{}{}
		}

		if !call.StartTime.IsZero() {
			if s.FirstCall.IsZero() || call.StartTime.Before(s.FirstCall) {
				s.FirstCall = call.StartTime
			}
			if call.StartTime.After(s.LastCall) {
				s.LastCall = call.StartTime
			}
		}

		source := call.SourceName
		if source == "" {
			source = "(none)"
		}
		s.BySource[source]++
	}

	s.TotalDuration = time.Duration(totalSeconds) * time.Second
	if len(calls) > 0 {
		s.AverageDuration = s.TotalDuration / time.Duration(len(calls))
	}
	s.UniqueCallers = len(callers)

	return s
}

// Render formats the summary as a human-readable report.
func (s Summary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Calls:          %d\n", s.TotalCalls)
	fmt.Fprintf(&b, "  Answered:     %d\n", s.Answered)
	fmt.Fprintf(&b, "  Missed:       %d\n", s.Missed)
	fmt.Fprintf(&b, "  Voicemail:    %d\n", s.Voicemails)
	fmt.Fprintf(&b, "  Inbound:      %d\n", s.Inbound)
	fmt.Fprintf(&b, "  Outbound:     %d\n", s.Outbound)
	fmt.Fprintf(&b, "  Recorded:     %d\n", s.WithRecording)
	fmt.Fprintf(&b, "Talk time:      %s (avg %s)\n", s.TotalDuration, s.AverageDuration)
	fmt.Fprintf(&b, "Unique callers: %d\n", s.UniqueCallers)
	if !s.FirstCall.IsZero() {
		fmt.Fprintf(&b, "Date range:     %s to %s\n",
			s.FirstCall.Format("2006-01-02"), s.LastCall.Format("2006-01-02"))
	}

	if len(s.BySource) > 0 {
		b.WriteString("By source:\n")
		sources := make([]string, 0, len(s.BySource))
		for source := range s.BySource {
			sources = append(sources, source)
		}
		sort.Slice(sources, func(i, j int) bool {
			if s.BySource[sources[i]] != s.BySource[sources[j]] {
				return s.BySource[sources[i]] > s.BySource[sources[j]]
			}
			return sources[i] < sources[j]
		})
		for _, source := range sources {
			fmt.Fprintf(&b, "  %-24s %d\n", source, s.BySource[source])
		}
	}

	return b.String()
}
