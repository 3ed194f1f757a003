package fragment

// Store is the mapping from fragment id to its (possibly multivalued)
// Snippet. No concurrent access is required (spec.md §4.2).
type Store struct {
	snippets map[ID]*Snippet
	order    []ID // first-seen order, for deterministic Ids
}

// NewStore returns an empty snippet store.
func NewStore() *Store {
	return &Store{snippets: make(map[ID]*Snippet)}
}

// Store appends contribution c to id. If id already has contributions,
// the existing single entry is migrated into Children before appending,
// so Children has size >= 2 as soon as the second contribution arrives
// (spec.md §4.2). The harvester never deletes, only appends (invariant 1).
func (s *Store) Store(id ID, c *Contribution) {
	existing, ok := s.snippets[id]
	if !ok {
		snippet := &Snippet{}
		snippet.setContent(c)
		s.snippets[id] = snippet
		s.order = append(s.order, id)
		return
	}

	if len(existing.Children) == 0 {
		first := &Contribution{
			Kind:        existing.Kind,
			Path:        existing.Path,
			Interpreter: existing.Interpreter,
			Content:     existing.Content,
			RawContent:  existing.RawContent,
			DependsOn:   existing.DependsOn,
			Attributes:  existing.Attributes,
			Raw:         existing.Raw,
		}
		existing.Children = append(existing.Children, first)
	}
	existing.Children = append(existing.Children, c)
	existing.DependsOn = append(existing.DependsOn, c.DependsOn...)
}

// Put reinstates a snippet under id, e.g. after the weaver has popped it
// to substitute and mutate it in place. Used instead of Store, which
// would incorrectly treat this as a second contribution.
func (s *Store) Put(id ID, snippet *Snippet) {
	if _, ok := s.snippets[id]; !ok {
		s.order = append(s.order, id)
	}
	s.snippets[id] = snippet
}

// Get reads the snippet stored under id without removing it.
func (s *Store) Get(id ID) (*Snippet, bool) {
	snippet, ok := s.snippets[id]
	return snippet, ok
}

// Pop removes and returns the snippet stored under id, so the weaver can
// write back a woven form via Put.
func (s *Store) Pop(id ID) (*Snippet, bool) {
	snippet, ok := s.snippets[id]
	if ok {
		delete(s.snippets, id)
	}
	return snippet, ok
}

// Ids returns a snapshot of every fragment id currently in the store, in
// first-seen order.
func (s *Store) Ids() []ID {
	out := make([]ID, 0, len(s.order))
	seen := make(map[ID]bool, len(s.order))
	for _, id := range s.order {
		if _, ok := s.snippets[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Len reports how many distinct fragment ids the store currently holds.
func (s *Store) Len() int {
	return len(s.snippets)
}
