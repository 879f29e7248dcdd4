package pairing

import (
	"fmt"
	"strconv"
	"strings"
)

// Boundary parsing for the operator's compact tuple notation. Everything
// here runs before the core sees a request; parse errors never reach the
// orchestrator.

// ParseTuples parses "src,dst;src,dst" into ID tuples, e.g. "111,555" or
// "111,555;112,600".
func ParseTuples(s string) ([]Tuple, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	tuples := make([]Tuple, 0, len(parts))
	for _, part := range parts {
		t, err := ParseTuple(part)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, t)
	}
	return tuples, nil
}

// ParseTuple parses a single "src,dst" pair.
func ParseTuple(s string) (Tuple, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) != 2 {
		return Tuple{}, fmt.Errorf("pair %q must be two comma-separated volume IDs, e.g. 111,555", s)
	}
	src, err := parseID(fields[0])
	if err != nil {
		return Tuple{}, err
	}
	dst, err := parseID(fields[1])
	if err != nil {
		return Tuple{}, err
	}
	return Tuple{Src: src, Dst: dst}, nil
}

// ParseIDList parses "100,101,102" into volume IDs.
func ParseIDList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := parseID(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("volume ID %q is not an integer", strings.TrimSpace(s))
	}
	if id <= 0 {
		return 0, fmt.Errorf("volume ID must be positive, got %d", id)
	}
	return id, nil
}
