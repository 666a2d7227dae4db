package ir

// children returns n's immediate expression children, in evaluation
// order, for the generic walks below. Leaf nodes return nil.
func children(n Expr) []Expr {
	switch x := n.(type) {
	case *BinaryExpr:
		return []Expr{x.A, x.B}
	case *UnaryExpr:
		return []Expr{x.X}
	case *ForStmt:
		return []Expr{x.Init, x.Cond, x.Inc, x.Body}
	case *IfThenElseStmt:
		if x.Else != nil {
			return []Expr{x.Cond, x.Then, x.Else}
		}
		return []Expr{x.Cond, x.Then}
	case *BlockStmt:
		return x.Children
	case *CallOnceExpr:
		return []Expr{x.X}
	case *Reference:
		return append([]Expr{x.Target}, x.Indices...)
	case *BufferOpr:
		if x.Size != nil {
			return []Expr{x.Size}
		}
		return nil
	case *Cast:
		return []Expr{x.X}
	case *Let:
		return []Expr{x.Value}
	case *Identity:
		return []Expr{x.X}
	case *Call:
		return x.Args
	case *Function:
		return []Expr{x.Body}
	case *Assign:
		return []Expr{x.Target, x.Value}
	case *SIMDOpr:
		return x.Operands
	case *Module:
		out := make([]Expr, len(x.Functions))
		for i, f := range x.Functions {
			out[i] = f
		}
		return out
	default:
		return nil
	}
}

// Collect gathers every descendant of root (root included) whose
// concrete type is T, in pre-order, using Go generics in place of the
// teacher's tag-switch "get all nodes of kind" helpers.
func Collect[T Expr](root Expr) []T {
	var out []T
	var walk func(Expr)
	walk = func(n Expr) {
		if n == nil {
			return
		}
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		for _, c := range children(n) {
			walk(c)
		}
	}
	walk(root)
	return out
}
