package model

// A Manifest indexes every tool and output registered for one workshop.
// Both collections hold the newest entry first.
type Manifest struct {
	Tools   []Tool   `json:"tools"`
	Outputs []Output `json:"outputs"`
}

// Normalize defaults absent collections so callers never see a nil slice.
// Called after every decode; a manifest written by hand may omit either key.
func (m *Manifest) Normalize() {
	if m.Tools == nil {
		m.Tools = make([]Tool, 0)
	}
	if m.Outputs == nil {
		m.Outputs = make([]Output, 0)
	}
}
