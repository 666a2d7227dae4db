package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/ir"
)

// Mode selects which half of a compiled unit's source layout is
// rendered: Header declares, Source defines.
type Mode int

const (
	// Header emits an include-guarded forward-declaration file.
	Header Mode = iota
	// Source emits includes, the data section and full function bodies.
	Source
)

// Printer renders one or more ir.Functions (plus their data section) as
// C source to an io.Writer, following the per-node rules of spec.md
// §4.6. It holds no state beyond the writer, the indentation depth, the
// include-guard stem and the first write error; `let` hoisting is
// decided block by block as each block is emitted.
type Printer struct {
	w         io.Writer
	indent    int
	guardName string
	err       error
}

// NewPrinter returns a Printer writing to w. guardName is used as the
// include-guard macro's stem when emitting a Header
// (`CINN_<GUARDNAME>_`, upper-cased); it is ignored for Source.
func NewPrinter(w io.Writer, guardName string) *Printer {
	return &Printer{w: w, guardName: strings.ToUpper(guardName)}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
	}
}

func (p *Printer) pad() string { return strings.Repeat("  ", p.indent) }

// Err returns the first write error encountered, if any.
func (p *Printer) Err() error { return p.err }

// Data is one entry of the global data section: a weight array, an
// input/output tensor buffer, or a temporary's buffer (spec.md §6's
// "data section").
type Data struct {
	Buffer *ir.BufferOpr
	// Array is set instead of Buffer for a weight section entry
	// (spec.md §6: "create weight buffers" emits a literal array, not
	// a malloc'd pointer).
	Array *ir.Array
}

// EmitModule renders mod in the given mode: a Header gets an include
// guard and forward declarations only; a Source gets includes, the
// data section (data, in declaration order) and every function's full
// body (spec.md §4.6).
func (p *Printer) EmitModule(mode Mode, mod *ir.Module, data []Data) error {
	if mode == Header {
		p.printf("#ifndef CINN_%s_\n#define CINN_%s_\n\n", p.guardName, p.guardName)
	}
	p.emitIncludes(mod)
	p.printf("\n")

	if mode == Header {
		for _, fn := range mod.Functions {
			p.printf("%s;\n", p.signature(fn))
		}
		p.printf("\n#endif  // CINN_%s_\n", p.guardName)
		return p.err
	}

	if len(data) > 0 {
		p.printf("// --- data section ---\n")
		for _, d := range data {
			p.emitData(d)
		}
		p.printf("\n")
	}
	p.printf("// --- functions ---\n")
	for _, fn := range mod.Functions {
		if err := p.EmitFunction(fn); err != nil {
			return err
		}
	}
	return p.err
}

// emitIncludes scans mod for SIMDOpr use, so the immintrin.h include
// (spec.md §6: "when SIMD used") is only emitted when needed.
func (p *Printer) emitIncludes(mod *ir.Module) {
	p.printf("#include <stdlib.h>\n#include <stdio.h>\n#include <math.h>\n")
	uses := false
	for _, fn := range mod.Functions {
		if len(ir.Collect[*ir.SIMDOpr](fn.Body)) > 0 {
			uses = true
			break
		}
	}
	if uses {
		p.printf("#include <immintrin.h>\n")
	}
}

func (p *Printer) emitData(d Data) {
	switch {
	case d.Array != nil:
		a := d.Array
		p.printf("%s %s[] = { ", typeAlias(a.Type().Primitive), a.Name)
		parts := make([]string, len(a.Values))
		for i, v := range a.Values {
			parts[i] = v.String()
		}
		p.printf("%s };\n", strings.Join(parts, ", "))
	case d.Buffer != nil:
		p.emitBufferDecl(d.Buffer)
	}
}

// emitBufferDecl renders a BufferAlloc data-section entry as a typed
// malloc declaration; BufferFree/BufferRef entries have no place in the
// data section (they appear inline in a function body instead).
func (p *Printer) emitBufferDecl(b *ir.BufferOpr) {
	t := typeAlias(b.Type().Primitive)
	size := p.exprString(b.Size)
	p.printf("%s* %s = (%s*) malloc(%s);\n", t, b.Name, t, size)
}

// signature renders a Function's C declaration (spec.md §4.6: "emit
// signature `void <name> (<typed args>)`").
func (p *Printer) signature(fn *ir.Function) string {
	args := make([]string, len(fn.Params))
	for i, t := range fn.Params {
		args[i] = fmt.Sprintf("%s* %s", typeAlias(t.Type().Primitive), t.Name)
	}
	return fmt.Sprintf("void %s(%s)", fn.Name, strings.Join(args, ", "))
}

// EmitFunction renders fn's full signature and body.
func (p *Printer) EmitFunction(fn *ir.Function) error {
	p.printf("%s {\n", p.signature(fn))
	p.indent++
	p.emitBlockBody(fn.Body)
	p.indent--
	p.printf("}\n")
	return p.err
}

// emitBlockBody emits n's statements, hoisting any *ir.Let found at
// this level to the top of the block first (spec.md §6: "Let(a, b)
// ... is hoisted to the start of the enclosing Block").
func (p *Printer) emitBlockBody(n ir.Expr) {
	block, err := ir.As[*ir.BlockStmt](n)
	if err != nil {
		p.emitStmt(n)
		return
	}
	var lets, rest []ir.Expr
	for _, c := range block.Children {
		if l, ok := c.(*ir.Let); ok {
			lets = append(lets, l)
			continue
		}
		rest = append(rest, c)
	}
	for _, l := range lets {
		p.emitStmt(l)
	}
	for _, c := range rest {
		p.emitStmt(c)
	}
}

// emitStmt renders one statement-level node, per spec.md §4.6's
// per-node emission rules.
func (p *Printer) emitStmt(n ir.Expr) {
	switch x := n.(type) {
	case *ir.BlockStmt:
		p.printf("%s{\n", p.pad())
		p.indent++
		p.emitBlockBody(x)
		p.indent--
		p.printf("%s}\n", p.pad())

	case *ir.ForStmt:
		// The loop condition is printed without the outer parentheses
		// binaryExprString adds, e.g. `i < 20`.
		cond := p.exprString(x.Cond)
		if b, ok := x.Cond.(*ir.BinaryExpr); ok && b.Tag() != ir.TagMin && b.Tag() != ir.TagMax {
			cond = fmt.Sprintf("%s %s %s", p.exprString(b.A), binaryOperator(b.Tag()), p.exprString(b.B))
		}
		p.printf("%sfor (int %s = %s; %s; %s += %s) {\n",
			p.pad(), x.Iter.Name, p.exprString(x.Init), cond, x.Iter.Name, p.exprString(x.Inc))
		p.indent++
		p.emitBlockBody(x.Body)
		p.indent--
		p.printf("%s}\n", p.pad())

	case *ir.IfThenElseStmt:
		p.printf("%sif (%s) {\n", p.pad(), p.exprString(x.Cond))
		p.indent++
		p.emitBlockBody(x.Then)
		p.indent--
		if x.Else != nil {
			p.printf("%s} else {\n", p.pad())
			p.indent++
			p.emitBlockBody(x.Else)
			p.indent--
		}
		p.printf("%s}\n", p.pad())

	case *ir.Assign:
		p.printf("%s%s %s %s;\n", p.pad(), p.exprString(x.Target), assignOperator(x.Op), p.exprString(x.Value))

	case *ir.Let:
		p.printf("%s%s %s = %s;\n", p.pad(), typeAlias(x.Type().Primitive), x.Name, p.exprString(x.Value))

	case *ir.BufferOpr:
		switch x.Kind {
		case ir.BufferAlloc:
			p.emitBufferDecl(x)
		case ir.BufferFree:
			p.printf("%sfree(%s);\n", p.pad(), x.Name)
		}

	case *ir.MarkStmt:
		p.printf("%s// mark: %s\n", p.pad(), x.ID)

	case *ir.Call:
		p.printf("%s%s;\n", p.pad(), p.exprString(x))

	default:
		p.printf("%s%s;\n", p.pad(), p.exprString(n))
	}
}

func assignOperator(op ir.AssignOp) string {
	switch op {
	case ir.AssignSum:
		return "+="
	case ir.AssignSub:
		return "-="
	case ir.AssignMul:
		return "*="
	case ir.AssignDiv:
		return "/="
	default:
		return "="
	}
}

// exprString renders an expression-level node inline, per spec.md
// §4.6's rules for Reference, Min/Max, SIMDOpr and the arithmetic/
// comparison operators.
func (p *Printer) exprString(n ir.Expr) string {
	switch x := n.(type) {
	case nil:
		return ""
	case *ir.Reference:
		parts := make([]string, len(x.Indices))
		for i, idx := range x.Indices {
			parts[i] = p.exprString(idx)
		}
		return fmt.Sprintf("%s[%s]", p.exprString(x.Target), strings.Join(parts, ", "))
	case *ir.Tensor:
		return x.Name
	case *ir.Array:
		return x.Name
	case *ir.Var:
		return x.Name
	case *ir.IntImm:
		return fmt.Sprintf("%d", x.Value)
	case *ir.FloatImm:
		return fmt.Sprintf("%g", x.Value)
	case *ir.ConstantExpr:
		return x.Val.String()
	case *ir.BinaryExpr:
		return p.binaryExprString(x)
	case *ir.UnaryExpr:
		return fmt.Sprintf("(-%s)", p.exprString(x.X))
	case *ir.Cast:
		return fmt.Sprintf("(%s)%s", typeAlias(x.Type().Primitive), p.exprString(x.X))
	case *ir.Identity:
		return p.exprString(x.X)
	case *ir.CallOnceExpr:
		return p.exprString(x.X)
	case *ir.BufferOpr:
		return x.Name
	case *ir.Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.exprString(a)
		}
		return fmt.Sprintf("%s(%s)", x.Callee, strings.Join(args, ", "))
	case *ir.SIMDOpr:
		return p.simdOprString(x)
	default:
		if p.err == nil {
			p.err = errors.Errorf("emit: no C rendering for node tag %s", n.Tag())
		}
		return n.String()
	}
}

func (p *Printer) binaryExprString(x *ir.BinaryExpr) string {
	switch x.Tag() {
	case ir.TagMin:
		return fmt.Sprintf("cinn_min(%s, %s)", p.exprString(x.A), p.exprString(x.B))
	case ir.TagMax:
		return fmt.Sprintf("cinn_max(%s, %s)", p.exprString(x.A), p.exprString(x.B))
	default:
		return fmt.Sprintf("(%s %s %s)", p.exprString(x.A), binaryOperator(x.Tag()), p.exprString(x.B))
	}
}

func binaryOperator(tag ir.Tag) string {
	switch tag {
	case ir.TagAdd:
		return "+"
	case ir.TagSub:
		return "-"
	case ir.TagMul:
		return "*"
	case ir.TagDiv:
		return "/"
	case ir.TagMod:
		return "%"
	case ir.TagExp:
		return "**"
	case ir.TagEQ:
		return "=="
	case ir.TagNE:
		return "!="
	case ir.TagLT:
		return "<"
	case ir.TagLE:
		return "<="
	case ir.TagGT:
		return ">"
	case ir.TagGE:
		return ">="
	case ir.TagAnd:
		return "&&"
	case ir.TagOr:
		return "||"
	default:
		return "?"
	}
}

// simdOprString renders a SIMDOpr via the intrinsic table (spec.md
// §4.6: "loads take an address, stores take (address, value)").
func (p *Printer) simdOprString(x *ir.SIMDOpr) string {
	name, ok := simdIntrinsic(x.Width, x.Op)
	if !ok {
		if p.err == nil {
			p.err = errors.Errorf("emit: no intrinsic for width %d opcode %s", x.Width, x.Op)
		}
		return x.String()
	}
	args := make([]string, len(x.Operands))
	for i, o := range x.Operands {
		arg := p.exprString(o)
		if (x.Op == ir.SIMDLoad && i == 0) || (x.Op == ir.SIMDStore && i == 0) {
			arg = "&" + arg
		}
		args[i] = arg
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
