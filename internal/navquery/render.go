package navquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Render turns a fragment tree into an FT.SEARCH filter string.
func Render(f Fragment) string {
	switch frag := f.(type) {
	case MatchAll:
		return "*"
	case TagMatch:
		return renderTag(frag)
	case TextMatch:
		return renderText(frag)
	case NumericRange:
		return renderNumeric(frag)
	case And:
		return renderAnd(frag)
	case Or:
		return renderOr(frag)
	case Not:
		return "-" + parenthesize(Render(frag.Inner))
	case nil:
		return "*"
	}
	panic(fmt.Sprintf("navquery: unknown fragment type %T", f))
}

// WrapKNN wraps a base filter into a KNN clause. The query vector is bound
// by the executor as the $BLOB parameter; the renderer never sees it.
func WrapKNN(base Fragment, k int) string {
	filter := Render(base)
	knn := fmt.Sprintf("[KNN %d @embedding $BLOB]", k)
	if filter == "*" {
		return "*=>" + knn
	}
	return "(" + filter + ")=>" + knn
}

func renderTag(t TagMatch) string {
	escaped := make([]string, len(t.Values))
	for i, v := range t.Values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", t.Field, strings.Join(escaped, "|"))
}

func renderText(t TextMatch) string {
	terms := make([]string, len(t.Terms))
	for i, term := range t.Terms {
		escaped := textEscaper.Replace(term)
		if t.Wildcard {
			escaped += "*"
		}
		terms[i] = escaped
	}
	return fmt.Sprintf("@%s:(%s)", t.Field, strings.Join(terms, "|"))
}

func renderNumeric(r NumericRange) string {
	minBound := "-inf"
	maxBound := "+inf"
	if !r.MinInf {
		minBound = formatBound(r.Min, r.MinExcl)
	}
	if !r.MaxInf {
		maxBound = formatBound(r.Max, r.MaxExcl)
	}
	return fmt.Sprintf("@%s:[%s %s]", r.Field, minBound, maxBound)
}

func formatBound(v float64, exclusive bool) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if exclusive {
		return "(" + s
	}
	return s
}

func renderAnd(a And) string {
	if len(a.Parts) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(a.Parts))
	for _, p := range a.Parts {
		if rendered := Render(p); rendered != "*" {
			parts = append(parts, rendered)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func renderOr(o Or) string {
	if len(o.Parts) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(o.Parts))
	for _, p := range o.Parts {
		parts = append(parts, Render(p))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func parenthesize(s string) string {
	if strings.HasPrefix(s, "(") || strings.HasPrefix(s, "@") {
		return s
	}
	return "(" + s + ")"
}

// tagEscaper escapes RediSearch tag syntax characters in tag values.
var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "\"", "\\\"", "'", "\\'",
	":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)",
	"-", "\\-", "+", "\\+", "=", "\\=", "~", "\\~",
	" ", "\\ ",
)

// textEscaper escapes query syntax characters in full-text terms.
var textEscaper = strings.NewReplacer(
	`\`, `\\`, `'`, `\'`, `"`, `\"`, `@`, `\@`,
	`{`, `\{`, `}`, `\}`, `(`, `\(`, `)`, `\)`,
	`|`, `\|`, `-`, `\-`, `~`, `\~`, `*`, `\*`,
	`[`, `\[`, `]`, `\]`, `!`, `\!`, `%`, `\%`,
	`^`, `\^`, `$`, `\$`, `<`, `\<`, `>`, `\>`,
	`=`, `\=`, `;`, `\;`, `+`, `\+`,
)
