package classify

import "encoding/json"

// SeenSet is the bounded history of message identifiers observed across
// runs. Membership is a map lookup; order is insertion order and is what
// Trim evicts by. Re-adding an id does not move it.
type SeenSet struct {
	index map[string]struct{}
	order []string
}

// NewSeenSet builds a set from ids, keeping the first occurrence of each.
func NewSeenSet(ids ...string) *SeenSet {
	s := &SeenSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was absent.
func (s *SeenSet) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether id is in the set. A nil set is empty.
func (s *SeenSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *SeenSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns the ids in insertion order.
func (s *SeenSet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Trim drops the oldest insertions until at most bound ids remain.
// A bound of zero or less leaves the set unbounded.
func (s *SeenSet) Trim(bound int) {
	if s == nil || bound <= 0 || len(s.order) <= bound {
		return
	}
	drop := len(s.order) - bound
	for _, id := range s.order[:drop] {
		delete(s.index, id)
	}
	kept := make([]string, bound)
	copy(kept, s.order[drop:])
	s.order = kept
}

// Clone returns an independent copy of the set.
func (s *SeenSet) Clone() *SeenSet {
	if s == nil {
		return NewSeenSet()
	}
	return NewSeenSet(s.order...)
}

// MarshalJSON encodes the set as an array in insertion order.
func (s *SeenSet) MarshalJSON() ([]byte, error) {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of ids, dropping duplicates.
func (s *SeenSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = *NewSeenSet(ids...)
	return nil
}
