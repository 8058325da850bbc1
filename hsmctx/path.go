package hsmctx

// PathToRoot and LCA mirror package hsm's path.go exactly; see its comments.
func PathToRoot[E any](n *State[E]) []*State[E] {
	path := make([]*State[E], 0, 4)
	for s := n; s != nil; s = s.parent {
		path = append(path, s)
	}
	return path
}

func LCA[E any](p1, p2 []*State[E]) (*State[E], error) {
	for _, n := range p1 {
		for _, m := range p2 {
			if n == m {
				return n, nil
			}
		}
	}
	return nil, ErrNoCommonAncestor
}
