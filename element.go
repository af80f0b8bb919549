package lq

// Element is a value that has been removed from a queue. The caller
// that receives an Element owns it, and should Release it once the
// value is no longer needed.
type Element struct {
	value    string
	arena    *Arena
	released bool
}

// Value returns the element's string. Released and nil elements
// have empty values.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	return e.value
}

func (e *Element) String() string { return e.Value() }

// Ok reports if the element is non-nil and has not been released.
func (e *Element) Ok() bool { return e != nil && !e.released }

// Release returns the element to its arena. Releasing a nil element
// is a no-op; releasing an element twice returns ErrDoubleRelease.
func (e *Element) Release() error {
	switch {
	case e == nil:
		return nil
	case e.released:
		return ErrDoubleRelease
	}

	e.released = true
	e.value = ""
	e.arena.outstanding--
	return nil
}

// copyTo writes the value into buf as a 0-terminated string,
// truncated to fit, and clears the rest of buf.
func (e *Element) copyTo(buf []byte) *Element {
	if len(buf) == 0 {
		return e
	}

	n := copy(buf[:len(buf)-1], e.value)
	clear(buf[n:])
	return e
}
