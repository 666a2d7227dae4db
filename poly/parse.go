package poly

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cinn-go/cinn/ir"
	"github.com/pkg/errors"
)

// relOpRe matches a single relational operator ("<=" or "<"), used to
// split a box constraint "lo <= dim < hi" into its three parts without
// a false split on "<=" containing "<".
var relOpRe = regexp.MustCompile(`<=|<`)

// ParseError reports a rejected integer-set or integer-map literal
// (spec.md §7 item 2: "polyhedral infeasibility or parse rejection").
type ParseError struct {
	Input string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("poly: cannot parse %q: %s", e.Input, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

func parseErr(input string, cause error) error {
	return &ParseError{Input: input, cause: cause}
}

// splitTopLevel splits s on sep, ignoring occurrences inside [...] or
// (...) brackets.
func splitTopLevel(s, sep string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			out = append(out, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// parseTuple parses "name[d0,d1,...]" into a tuple name and dim names.
func parseTuple(s string) (string, []string, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return "", nil, errors.Errorf("expected tuple of the form name[d0,d1,...], got %q", s)
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	var dims []string
	if strings.TrimSpace(inner) != "" {
		for _, d := range strings.Split(inner, ",") {
			dims = append(dims, strings.TrimSpace(d))
		}
	}
	return name, dims, nil
}

// parseConstant parses an integer literal or a bare symbolic name into
// an ir.Constant.
func parseConstant(s string) ir.Constant {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.IntConst(v)
	}
	return ir.SymConst(s)
}

// parseBound recognises "lo <= dim < hi" / "lo <= dim <= hi" box
// constraints, the only constraint shape this bridge evaluates. Upper
// bounds are always normalised to the exclusive form ("< hi"); a
// "<= hi" literal bound is converted to "< hi+1", but a symbolic hi is
// kept as an inclusive bound via Interval's own semantics (NewInterval
// just stores the two endpoints verbatim; exclusivity is a convention
// the box engine applies only to literal endpoints it can add one to).
func parseBound(constraint string, dims []string) (dim string, iv ir.Interval, ok bool) {
	ops := relOpRe.FindAllStringIndex(constraint, -1)
	if len(ops) != 2 {
		return "", ir.Interval{}, false
	}
	loStr := strings.TrimSpace(constraint[:ops[0][0]])
	dimStr := strings.TrimSpace(constraint[ops[0][1]:ops[1][0]])
	hiOp := constraint[ops[1][0]:ops[1][1]]
	hiStr := strings.TrimSpace(constraint[ops[1][1]:])
	for _, d := range dims {
		if d != dimStr {
			continue
		}
		lo := parseConstant(loStr)
		hi := parseConstant(hiStr)
		if hiOp == "<=" && hi.ValueSet {
			hi = ir.IntConst(hi.Value + 1)
		}
		return dimStr, ir.NewInterval(lo, hi), true
	}
	return "", ir.Interval{}, false
}

// ParseSet parses an ISL-style box set literal, e.g.
// "{ [i,j] : 0 <= i < 20 and 0 <= j < 40 }".
func ParseSet(ctx *Context, literal string) (*Set, error) {
	body := strings.TrimSpace(literal)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	parts := splitTopLevel(body, ":")
	tupleName, dims, err := parseTuple(parts[0])
	if err != nil {
		return nil, parseErr(literal, err)
	}
	bounds := make([]ir.Interval, len(dims))
	for i := range bounds {
		bounds[i] = ir.NewInterval(ir.SymConst("-inf"), ir.SymConst("+inf"))
	}
	if len(parts) > 1 {
		for _, constraint := range strings.Split(parts[1], " and ") {
			constraint = strings.TrimSpace(constraint)
			if constraint == "" {
				continue
			}
			dimName, iv, ok := parseBound(constraint, dims)
			if !ok {
				return nil, parseErr(literal, errors.Errorf("unsupported constraint shape %q (this bridge evaluates only box bounds)", constraint))
			}
			for i, d := range dims {
				if d == dimName {
					bounds[i] = iv
				}
			}
		}
	}
	return NewSet(ctx, NewSpace(tupleName, dims), bounds), nil
}

// ParseUnionSet parses a semicolon-separated sequence of set literals.
func ParseUnionSet(ctx *Context, literal string) (*UnionSet, error) {
	var sets []*Set
	for _, part := range strings.Split(literal, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, err := ParseSet(ctx, part)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return NewUnionSet(sets...), nil
}

// ParseMap parses an ISL-style map literal, e.g.
// "{ [ii0,ii1] -> [v0,v1] : ii0 = v0 and ii1 = v1 }".
func ParseMap(literal string) (*Map, error) {
	body := strings.TrimSpace(literal)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	arrowParts := splitTopLevel(body, "->")
	if len(arrowParts) != 2 {
		return nil, parseErr(literal, errors.Errorf("expected a single '->' separating domain and range"))
	}
	inName, inDims, err := parseTuple(arrowParts[0])
	if err != nil {
		return nil, parseErr(literal, err)
	}
	rangeAndConstraints := splitTopLevel(arrowParts[1], ":")
	outName, outDims, err := parseTuple(rangeAndConstraints[0])
	if err != nil {
		return nil, parseErr(literal, err)
	}
	in := NewSpace(inName, inDims)
	out := NewSpace(outName, outDims)

	eqs := make([]Equality, 0, len(outDims))
	if len(rangeAndConstraints) > 1 {
		for _, constraint := range strings.Split(rangeAndConstraints[1], " and ") {
			constraint = strings.TrimSpace(constraint)
			if constraint == "" {
				continue
			}
			eqParts := strings.SplitN(constraint, "=", 2)
			if len(eqParts) != 2 {
				return nil, parseErr(literal, errors.Errorf("unsupported constraint %q (only 'outDim = expr' equalities are supported)", constraint))
			}
			outDim := out.DimIndex(strings.TrimSpace(eqParts[0]))
			if outDim < 0 {
				return nil, parseErr(literal, errors.Errorf("%q does not name an output dimension", eqParts[0]))
			}
			eqs = append(eqs, Equality{OutDim: outDim, Expr: strings.TrimSpace(eqParts[1])})
		}
	} else {
		// No explicit constraints: identity-shaped map between
		// same-rank spaces, matched positionally.
		for i := range outDims {
			if i < len(inDims) {
				eqs = append(eqs, Equality{OutDim: i, Expr: inDims[i]})
			}
		}
	}
	return NewMap(in, out, eqs), nil
}

// ParseUnionMap parses a semicolon-separated sequence of map literals.
func ParseUnionMap(literal string) (*UnionMap, error) {
	var maps []*Map
	for _, part := range strings.Split(literal, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := ParseMap(part)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return NewUnionMap(maps...), nil
}
