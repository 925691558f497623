package filter

import "strings"

var defaultCompiler = NewExprCompiler(WithCache(64))

// Parse compiles an expression with the shared cached compiler. An empty
// expression yields a filter that matches everything.
func Parse(expression string) (CompiledFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return MatchAll(), nil
	}
	return defaultCompiler.Compile(expression)
}

type matchAll struct{}

// MatchAll returns a filter that accepts every subject
func MatchAll() CompiledFilter {
	return matchAll{}
}

func (matchAll) Evaluate(Subject) bool      { return true }
func (matchAll) Eval(Subject) (bool, error) { return true, nil }
func (matchAll) Expression() string         { return "" }

// First returns the index of the first subject matching f, or -1
func First[S Subject](f Filter, subjects []S) int {
	for i, s := range subjects {
		if f.Evaluate(s) {
			return i
		}
	}
	return -1
}

// Select returns the subjects matching f, preserving order
func Select[S Subject](f Filter, subjects []S) []S {
	matches := make([]S, 0, len(subjects))
	for _, s := range subjects {
		if f.Evaluate(s) {
			matches = append(matches, s)
		}
	}
	return matches
}
