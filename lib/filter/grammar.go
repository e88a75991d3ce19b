package filter

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fine-structures/orderly/lib/graph"
	"github.com/pkg/errors"
)

// FilterExpr is a conjunction of filter terms, e.g. "diamondfree & girth(5)".
type FilterExpr struct {
	Terms []*FilterTerm `parser:"@@ ( \"&\" @@ )*"`
}

// FilterTerm names one filter with an optional integer parameter.
type FilterTerm struct {
	Name  string `parser:"@Ident"`
	Param *int   `parser:"( \"(\" @Int \")\" )?"`
}

var sFilterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[&()]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var sParseFilterExpr = participle.MustBuild[FilterExpr](
	participle.Lexer(sFilterLexer),
)

// Parse maps a filter expression onto a Filter.
//
// Terms are "all", "diamondfree", "trianglefree" (same as girth(4)) and "girth(k)", joined with "&".
// An empty expression is AcceptAll.
func Parse(expr string) (Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return AcceptAll{}, nil
	}
	parsed, err := sParseFilterExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrapf(graph.ErrInvalidArgument, "filter %q: %v", expr, err)
	}

	filters := make([]Filter, 0, len(parsed.Terms))
	for _, term := range parsed.Terms {
		fi, err := term.build()
		if err != nil {
			return nil, err
		}
		filters = append(filters, fi)
	}
	return All(filters...), nil
}

func (term *FilterTerm) build() (Filter, error) {
	name := strings.ToLower(term.Name)
	if term.Param != nil && name != "girth" {
		return nil, errors.Wrapf(graph.ErrInvalidArgument, "filter %q takes no parameter", term.Name)
	}
	switch name {
	case "all", "any":
		return AcceptAll{}, nil
	case "diamondfree", "diamond-free":
		return DiamondFree{}, nil
	case "trianglefree", "triangle-free":
		return Girth{K: 4}, nil
	case "girth":
		if term.Param == nil {
			return nil, errors.Wrap(graph.ErrInvalidArgument, "girth requires a parameter, e.g. girth(5)")
		}
		return NewGirth(*term.Param)
	}
	return nil, errors.Wrapf(graph.ErrInvalidArgument, "unknown filter %q", term.Name)
}
