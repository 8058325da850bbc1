package hsmasync

// PathToRoot and LCA mirror package hsm's path.go exactly, operating on this
// package's own *State[E].
func PathToRoot[E any](n *State[E]) []*State[E] {
	var path []*State[E]
	for s := n; s != nil; s = s.parent {
		path = append(path, s)
	}
	return path
}

func LCA[E any](p1, p2 []*State[E]) (*State[E], error) {
	in2 := make(map[*State[E]]bool, len(p2))
	for _, s := range p2 {
		in2[s] = true
	}
	for _, s := range p1 {
		if in2[s] {
			return s, nil
		}
	}
	return nil, ErrNoCommonAncestor
}
