package level

import "strconv"

// ID is an optional texture, wall, door or event identifier. The zero value
// is absent.
type ID struct {
	value int32
	set   bool
}

// Absent is the empty ID.
var Absent ID

// Some wraps v as a present ID.
func Some(v int) ID {
	return ID{value: int32(v), set: true}
}

// Present reports whether the ID holds a value.
func (i ID) Present() bool {
	return i.set
}

// Get returns the value and whether it is present.
func (i ID) Get() (int, bool) {
	return int(i.value), i.set
}

// Or returns the value, or def when absent.
func (i ID) Or(def int) int {
	if !i.set {
		return def
	}
	return int(i.value)
}

// Is reports whether the ID is present and equal to v.
func (i ID) Is(v int) bool {
	return i.set && int(i.value) == v
}

func (i ID) String() string {
	if !i.set {
		return "-"
	}
	return strconv.Itoa(int(i.value))
}
