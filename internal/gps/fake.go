package gps

// FakeSource is a test double that returns scripted fixes.
type FakeSource struct {
	// Fixes contains scripted fixes. Each call to Poll() consumes the next one.
	// Once exhausted, the last fix is repeated with its updated flags cleared,
	// the way a parser behaves when no new sentence arrives.
	Fixes []Fix

	index int

	// Drains counts calls to Drain.
	Drains int
}

// NewFakeSource creates a FakeSource with the given fixes.
func NewFakeSource(fixes ...Fix) *FakeSource {
	return &FakeSource{Fixes: fixes}
}

// Drain records the call; there is no serial data to consume.
func (f *FakeSource) Drain() int {
	f.Drains++
	return 0
}

// Poll returns the next scripted fix.
func (f *FakeSource) Poll() Fix {
	if len(f.Fixes) == 0 {
		return Fix{}
	}
	if f.index < len(f.Fixes) {
		fix := f.Fixes[f.index]
		f.index++
		return fix
	}
	last := f.Fixes[len(f.Fixes)-1]
	last.TimeUpdated = false
	last.DateUpdated = false
	return last
}

// Push appends fixes to the script.
func (f *FakeSource) Push(fixes ...Fix) {
	f.Fixes = append(f.Fixes, fixes...)
}
