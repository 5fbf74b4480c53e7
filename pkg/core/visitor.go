package core

// Walk traverses an expression depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	switch n := e.(type) {
	case *UnaryExpr:
		Walk(n.Expr, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CallExpr:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *ParenExpr:
		Walk(n.Expr, fn)
	}
}

// DependsOnVariable reports whether e references the free variable.
func DependsOnVariable(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if id, ok := n.(*Ident); ok && id.IsVariable() {
			found = true
		}
		return !found
	})
	return found
}
