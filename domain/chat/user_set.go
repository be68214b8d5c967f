package chat

// userSet is an insertion-ordered set of user ids.
// It is never mutated after construction: with/without return fresh copies.
type userSet struct {
	order []string
	index map[string]struct{}
}

func newUserSet(ids []string) userSet {
	s := userSet{
		order: make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return s
}

func (s userSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s userSet) len() int {
	return len(s.order)
}

func (s userSet) values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s userSet) with(id string) userSet {
	if s.has(id) {
		return s
	}
	return newUserSet(append(s.values(), id))
}

func (s userSet) without(id string) userSet {
	if !s.has(id) {
		return s
	}
	kept := make([]string, 0, len(s.order))
	for _, v := range s.order {
		if v != id {
			kept = append(kept, v)
		}
	}
	return newUserSet(kept)
}
