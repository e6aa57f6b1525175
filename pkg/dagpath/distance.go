package dagpath

import "fmt"

// Distance is a tagged path distance. The zero value means unreachable; a
// reachable distance carries an int64 value. Arithmetic on an unreachable
// distance is never performed — relaxation short-circuits instead — so an
// extreme-integer sentinel can never overflow into a valid-looking number.
type Distance struct {
	Value     int64 `json:"value"`
	Reachable bool  `json:"reachable"`
}

// Reached wraps a finite distance value.
func Reached(v int64) Distance {
	return Distance{Value: v, Reachable: true}
}

func (d Distance) String() string {
	if !d.Reachable {
		return "unreachable"
	}
	return fmt.Sprintf("%d", d.Value)
}
