package category

import "sort"

// Set is an unordered collection of strings.
type Set struct {
	items map[string]struct{}
}

func NewSet(items ...string) *Set {
	s := &Set{items: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set) Add(item string) {
	s.items[item] = struct{}{}
}

func (s *Set) Remove(item string) {
	delete(s.items, item)
}

func (s *Set) Has(item string) bool {
	_, ok := s.items[item]
	return ok
}

// Toggle removes item if present, otherwise adds it. Reports whether item is now present.
func (s *Set) Toggle(item string) bool {
	if s.Has(item) {
		s.Remove(item)
		return false
	}
	s.Add(item)
	return true
}

func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the members sorted.
func (s *Set) Items() []string {
	out := make([]string, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
