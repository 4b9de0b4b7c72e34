// Package targets holds the fixed set of identifiers a search run is
// looking for. Matching is exact string comparison; the configured
// address encoding decides the case and format of derived identifiers,
// so targets must be supplied in the same form.
package targets

// Set is immutable after construction and safe for concurrent reads.
type Set struct {
	members map[string]struct{}
	ordered []string
}

// New deduplicates addrs preserving first-seen order.
func New(addrs []string) *Set {
	s := &Set{members: make(map[string]struct{}, len(addrs))}
	for _, a := range addrs {
		if _, dup := s.members[a]; dup {
			continue
		}
		s.members[a] = struct{}{}
		s.ordered = append(s.ordered, a)
	}
	return s
}

func (s *Set) Contains(addr string) bool {
	_, ok := s.members[addr]
	return ok
}

func (s *Set) Size() int { return len(s.ordered) }

// List returns the members in insertion order. The caller must not
// mutate the returned slice.
func (s *Set) List() []string { return s.ordered }
