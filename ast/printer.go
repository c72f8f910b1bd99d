package ast

import (
	"fmt"
	"strings"
)

func (e *Expression) String() string {
	var b strings.Builder
	b.WriteString(e.Left.String())
	for _, tail := range e.Rest {
		fmt.Fprintf(&b, " O %s", tail.Right.String())
	}
	return b.String()
}

func (x *XorLevel) String() string {
	var b strings.Builder
	b.WriteString(x.Left.String())
	for _, tail := range x.Rest {
		fmt.Fprintf(&b, " X %s", tail.Right.String())
	}
	return b.String()
}

func (a *AndLevel) String() string {
	var b strings.Builder
	b.WriteString(a.Left.String())
	for _, tail := range a.Rest {
		fmt.Fprintf(&b, " U %s", tail.Right.String())
	}
	return b.String()
}

func (t *ThenAlsoLevel) String() string {
	parts := make([]string, 0, len(t.Atoms))
	for _, atom := range t.Atoms {
		parts = append(parts, atom.String())
	}
	return strings.Join(parts, "")
}

func (a *Atom) String() string {
	switch {
	case a.Time != nil:
		return a.Time.String()
	case a.Package != nil:
		return a.Package.String()
	case a.Condition != nil:
		return a.Condition.String()
	case a.Group != nil:
		return "(" + a.Group.String() + ")"
	default:
		return ""
	}
}

func (c *Condition) String() string {
	return "[" + c.Key + "]"
}

func (p *Package) String() string {
	if p.Repeat != nil {
		return "[" + p.Key() + p.Repeat.String() + "]"
	}
	return "[" + p.Key() + "]"
}

func (r *Repeatability) String() string {
	if r.IsUnbounded() {
		return r.Min + "..n"
	}
	return r.Min + ".." + r.Max
}

func (tc *TimeCondition) String() string {
	return "[" + tc.Key + "]"
}

func (r *RequirementIndicatorExpression) String() string {
	if r.Body == nil {
		return string(r.Indicator)
	}
	return string(r.Indicator) + "[" + r.Body.String() + "]"
}

func (a *AhbExpression) String() string {
	parts := make([]string, 0, len(a.Indicators))
	for _, ind := range a.Indicators {
		parts = append(parts, ind.String())
	}
	return strings.Join(parts, " ")
}
