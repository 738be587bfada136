package core

import (
	"fmt"
	"strconv"
)

// Depth is the phase bucket a tool operation is scheduled into. Buckets
// execute strictly in order Depth1 through Depth4, then Unscheduled.
type Depth int

const (
	Depth1 Depth = iota + 1
	Depth2
	Depth3
	Depth4
	// Unscheduled collects operations with no declared depth. They run last.
	Unscheduled
)

// Buckets returns all depths in execution order.
func Buckets() []Depth {
	return []Depth{Depth1, Depth2, Depth3, Depth4, Unscheduled}
}

// DepthOrder returns the numeric position of a depth in the execution order,
// or -1 for an invalid depth.
func DepthOrder(d Depth) int {
	if d < Depth1 || d > Unscheduled {
		return -1
	}
	return int(d) - 1
}

// ValidDepth reports whether d is one of the five execution buckets.
func ValidDepth(d Depth) bool {
	return DepthOrder(d) >= 0
}

func (d Depth) String() string {
	if d == Unscheduled {
		return "unscheduled"
	}
	if d >= Depth1 && d <= Depth4 {
		return strconv.Itoa(int(d))
	}
	return fmt.Sprintf("Depth(%d)", int(d))
}

// ParseDepth converts a raw configuration value into a Depth. Configuration
// documents carry depths as JSON numbers or digit strings; anything outside
// 1..4 resolves to Unscheduled.
func ParseDepth(v any) Depth {
	var n int
	switch t := v.(type) {
	case nil:
		return Unscheduled
	case int:
		n = t
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(t)
		if err != nil {
			return Unscheduled
		}
		n = parsed
	default:
		return Unscheduled
	}
	if n < int(Depth1) || n > int(Depth4) {
		return Unscheduled
	}
	return Depth(n)
}
