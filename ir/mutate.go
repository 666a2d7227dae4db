package ir

// Mutator is offered n only after its children have already been
// rebuilt (post-order). Returning (repl, true) substitutes repl for n;
// returning (nil, false) keeps the rebuilt n as-is.
//
// Mutate never edits n in place: it always returns a new tree in which
// every node, unmutated ones included, is a fresh copy. This follows
// SPEC_FULL.md §9's redesign note ("treat IR nodes as values once constructed") rather
// than the teacher's original in-place rewrite, since CINN expressions
// are shared by multiple Reference handles and in-place mutation would
// corrupt every other holder.
type Mutator func(Expr) (Expr, bool)

// Mutate rebuilds n post-order: every child is visited (and rebuilt)
// first, and only then is the rebuilt node offered to fn, which may
// veto it by returning ok=true and substituting its own replacement in
// its place (spec.md §4.1).
func Mutate(n Expr, fn Mutator) Expr {
	if n == nil {
		return nil
	}
	var rebuilt Expr
	switch x := n.(type) {
	case *BinaryExpr:
		cp := *x
		cp.A = Mutate(x.A, fn)
		cp.B = Mutate(x.B, fn)
		rebuilt = &cp
	case *UnaryExpr:
		cp := *x
		cp.X = Mutate(x.X, fn)
		rebuilt = &cp
	case *ForStmt:
		cp := *x
		cp.Init = Mutate(x.Init, fn)
		cp.Cond = Mutate(x.Cond, fn)
		cp.Inc = Mutate(x.Inc, fn)
		cp.Body = Mutate(x.Body, fn).(*BlockStmt)
		rebuilt = &cp
	case *IfThenElseStmt:
		cp := *x
		cp.Cond = Mutate(x.Cond, fn)
		cp.Then = Mutate(x.Then, fn)
		if x.Else != nil {
			cp.Else = Mutate(x.Else, fn)
		}
		rebuilt = &cp
	case *BlockStmt:
		children := make([]Expr, len(x.Children))
		for i, c := range x.Children {
			children[i] = Mutate(c, fn)
		}
		cp := *x
		cp.Children = children
		rebuilt = &cp
	case *MarkStmt:
		cp := *x
		rebuilt = &cp
	case *CallOnceExpr:
		cp := *x
		cp.X = Mutate(x.X, fn)
		rebuilt = &cp
	case *IntImm:
		cp := *x
		rebuilt = &cp
	case *FloatImm:
		cp := *x
		rebuilt = &cp
	case *ConstantExpr:
		cp := *x
		rebuilt = &cp
	case *Var:
		cp := *x
		rebuilt = &cp
	case *Tensor:
		cp := *x
		rebuilt = &cp
	case *Array:
		cp := *x
		rebuilt = &cp
	case *Reference:
		cp := *x
		cp.Target = Mutate(x.Target, fn)
		indices := make([]Expr, len(x.Indices))
		for i, idx := range x.Indices {
			indices[i] = Mutate(idx, fn)
		}
		cp.Indices = indices
		rebuilt = &cp
	case *Allocate:
		cp := *x
		rebuilt = &cp
	case *BufferOpr:
		cp := *x
		if x.Size != nil {
			cp.Size = Mutate(x.Size, fn)
		}
		rebuilt = &cp
	case *Cast:
		cp := *x
		cp.X = Mutate(x.X, fn)
		rebuilt = &cp
	case *Let:
		cp := *x
		cp.Value = Mutate(x.Value, fn)
		rebuilt = &cp
	case *Identity:
		cp := *x
		cp.X = Mutate(x.X, fn)
		rebuilt = &cp
	case *Call:
		cp := *x
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = Mutate(a, fn)
		}
		cp.Args = args
		rebuilt = &cp
	case *Function:
		cp := *x
		cp.Body = Mutate(x.Body, fn)
		rebuilt = &cp
	case *Assign:
		cp := *x
		cp.Target = Mutate(x.Target, fn).(*Reference)
		cp.Value = Mutate(x.Value, fn)
		rebuilt = &cp
	case *SIMDOpr:
		cp := *x
		operands := make([]Expr, len(x.Operands))
		for i, o := range x.Operands {
			operands[i] = Mutate(o, fn)
		}
		cp.Operands = operands
		rebuilt = &cp
	case *Module:
		cp := *x
		fns := make([]*Function, len(x.Functions))
		for i, f := range x.Functions {
			fns[i] = Mutate(f, fn).(*Function)
		}
		cp.Functions = fns
		rebuilt = &cp
	default:
		panic(newDowncastError(TagInvalid, n.Tag()))
	}
	if repl, ok := fn(rebuilt); ok {
		return repl
	}
	return rebuilt
}

// Copy returns a deep copy of n, sharing no mutable state with it.
func Copy(n Expr) Expr {
	return Mutate(n, func(Expr) (Expr, bool) { return nil, false })
}
