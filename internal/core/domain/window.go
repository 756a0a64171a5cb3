package domain

// Window is a half-open time range [Lower, Upper) used to scope one
// incremental query. Bounds are ISO-8601 timestamp strings so they
// compare lexicographically in chronological order. An empty Upper
// means the window is unbounded ("now").
type Window struct {
	Lower string
	Upper string
}

// Open reports whether the window has no upper bound.
func (w Window) Open() bool {
	return w.Upper == ""
}

// Narrow returns a copy of the window with the upper bound pulled back
// to the given cursor.
func (w Window) Narrow(cursor string) Window {
	return Window{Lower: w.Lower, Upper: cursor}
}
