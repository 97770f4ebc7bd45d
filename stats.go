package squash

import (
	"fmt"
	"strings"
	"time"
)

// Stats holds the durations of the phases of one compilation in the order they started.
type Stats struct {
	Timings map[string]time.Duration

	order  []string
	starts map[string]time.Time
}

// NewStats returns empty Stats.
func NewStats() *Stats {
	return &Stats{
		Timings: map[string]time.Duration{},
		starts:  map[string]time.Time{},
	}
}

// Time starts the timer of a phase.
func (s *Stats) Time(label string) {
	if _, ok := s.Timings[label]; !ok {
		s.order = append(s.order, label)
	}
	s.starts[label] = time.Now()
}

// TimeEnd stops the timer of a phase and adds the elapsed time to its duration.
func (s *Stats) TimeEnd(label string) {
	start, ok := s.starts[label]
	if !ok {
		return
	}
	delete(s.starts, label)
	s.Timings[label] += time.Since(start)
}

// Labels returns the phases in the order they were first timed.
func (s *Stats) Labels() []string {
	return s.order
}

// Total returns the summed duration of all phases.
func (s *Stats) Total() time.Duration {
	total := time.Duration(0)
	for _, d := range s.Timings {
		total += d
	}
	return total
}

func (s *Stats) String() string {
	parts := make([]string, 0, len(s.order))
	for _, label := range s.order {
		parts = append(parts, fmt.Sprintf("%s %v", label, s.Timings[label]))
	}
	return strings.Join(parts, ", ")
}
