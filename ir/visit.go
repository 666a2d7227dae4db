package ir

// Visitor is a read-only, post-order walk over an expression tree: one
// Visit<Tag> hook per tag in the closed set (spec.md §3's "closed sum
// type with exhaustive pattern matching", SPEC_FULL.md §9's redesign
// note in place of the original's runtime "unsupported tag" errors).
// Embed NopVisitor to implement only the hooks of interest.
type Visitor interface {
	VisitBinaryExpr(*BinaryExpr)
	VisitUnaryExpr(*UnaryExpr)
	VisitFor(*ForStmt)
	VisitIfThenElse(*IfThenElseStmt)
	VisitBlock(*BlockStmt)
	VisitMark(*MarkStmt)
	VisitCallOnce(*CallOnceExpr)
	VisitIntImm(*IntImm)
	VisitFloatImm(*FloatImm)
	VisitConstantExpr(*ConstantExpr)
	VisitVar(*Var)
	VisitTensor(*Tensor)
	VisitArray(*Array)
	VisitReference(*Reference)
	VisitAllocate(*Allocate)
	VisitBufferOpr(*BufferOpr)
	VisitCast(*Cast)
	VisitLet(*Let)
	VisitIdentity(*Identity)
	VisitCall(*Call)
	VisitFunction(*Function)
	VisitAssign(*Assign)
	VisitSIMDOpr(*SIMDOpr)
	VisitModule(*Module)
}

// NopVisitor implements Visitor with no-op hooks; embed it to override
// only the tags a particular walk cares about.
type NopVisitor struct{}

func (NopVisitor) VisitBinaryExpr(*BinaryExpr)         {}
func (NopVisitor) VisitUnaryExpr(*UnaryExpr)           {}
func (NopVisitor) VisitFor(*ForStmt)                   {}
func (NopVisitor) VisitIfThenElse(*IfThenElseStmt)     {}
func (NopVisitor) VisitBlock(*BlockStmt)               {}
func (NopVisitor) VisitMark(*MarkStmt)                 {}
func (NopVisitor) VisitCallOnce(*CallOnceExpr)         {}
func (NopVisitor) VisitIntImm(*IntImm)                 {}
func (NopVisitor) VisitFloatImm(*FloatImm)             {}
func (NopVisitor) VisitConstantExpr(*ConstantExpr)     {}
func (NopVisitor) VisitVar(*Var)                       {}
func (NopVisitor) VisitTensor(*Tensor)                 {}
func (NopVisitor) VisitArray(*Array)                   {}
func (NopVisitor) VisitReference(*Reference)           {}
func (NopVisitor) VisitAllocate(*Allocate)             {}
func (NopVisitor) VisitBufferOpr(*BufferOpr)           {}
func (NopVisitor) VisitCast(*Cast)                     {}
func (NopVisitor) VisitLet(*Let)                       {}
func (NopVisitor) VisitIdentity(*Identity)             {}
func (NopVisitor) VisitCall(*Call)                     {}
func (NopVisitor) VisitFunction(*Function)             {}
func (NopVisitor) VisitAssign(*Assign)                 {}
func (NopVisitor) VisitSIMDOpr(*SIMDOpr)               {}
func (NopVisitor) VisitModule(*Module)                 {}

// Visit walks n and its descendants post-order, invoking v's hook for
// each node after its children have been visited.
func Visit(n Expr, v Visitor) {
	if n == nil {
		return
	}
	switch x := n.(type) {
	case *BinaryExpr:
		Visit(x.A, v)
		Visit(x.B, v)
		v.VisitBinaryExpr(x)
	case *UnaryExpr:
		Visit(x.X, v)
		v.VisitUnaryExpr(x)
	case *ForStmt:
		Visit(x.Init, v)
		Visit(x.Cond, v)
		Visit(x.Inc, v)
		Visit(x.Body, v)
		v.VisitFor(x)
	case *IfThenElseStmt:
		Visit(x.Cond, v)
		Visit(x.Then, v)
		if x.Else != nil {
			Visit(x.Else, v)
		}
		v.VisitIfThenElse(x)
	case *BlockStmt:
		for _, c := range x.Children {
			Visit(c, v)
		}
		v.VisitBlock(x)
	case *MarkStmt:
		v.VisitMark(x)
	case *CallOnceExpr:
		Visit(x.X, v)
		v.VisitCallOnce(x)
	case *IntImm:
		v.VisitIntImm(x)
	case *FloatImm:
		v.VisitFloatImm(x)
	case *ConstantExpr:
		v.VisitConstantExpr(x)
	case *Var:
		v.VisitVar(x)
	case *Tensor:
		v.VisitTensor(x)
	case *Array:
		v.VisitArray(x)
	case *Reference:
		Visit(x.Target, v)
		for _, idx := range x.Indices {
			Visit(idx, v)
		}
		v.VisitReference(x)
	case *Allocate:
		v.VisitAllocate(x)
	case *BufferOpr:
		if x.Size != nil {
			Visit(x.Size, v)
		}
		v.VisitBufferOpr(x)
	case *Cast:
		Visit(x.X, v)
		v.VisitCast(x)
	case *Let:
		Visit(x.Value, v)
		v.VisitLet(x)
	case *Identity:
		Visit(x.X, v)
		v.VisitIdentity(x)
	case *Call:
		for _, a := range x.Args {
			Visit(a, v)
		}
		v.VisitCall(x)
	case *Function:
		Visit(x.Body, v)
		v.VisitFunction(x)
	case *Assign:
		Visit(x.Target, v)
		Visit(x.Value, v)
		v.VisitAssign(x)
	case *SIMDOpr:
		for _, o := range x.Operands {
			Visit(o, v)
		}
		v.VisitSIMDOpr(x)
	case *Module:
		for _, fn := range x.Functions {
			Visit(fn, v)
		}
		v.VisitModule(x)
	default:
		panic(newDowncastError(TagInvalid, n.Tag()))
	}
}
