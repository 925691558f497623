package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables an LRU cache of compiled filters holding up to size entries.
// A non-positive size leaves caching off.
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if cache, err := lru.New[string, CompiledFilter](size); err == nil {
			c.cache = cache
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithVariables declares the variables every subject provides. The sample
// values fix their types, and expressions referring to any other identifier
// fail to compile instead of silently evaluating against nil.
func WithVariables(sample map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.variables = maps.Clone(sample)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	variables   map[string]any
	cache       *lru.Cache[string, CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression, c.compileOptions()...)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Add(expression, filter)
	}

	return filter, nil
}

// compileOptions type-checks against the declared variables when there are
// any; otherwise subject fields are unknown and only helpers are checked
func (c *exprCompiler) compileOptions() []expr.Option {
	if c.variables == nil {
		return []expr.Option{
			expr.Env(c.helperFuncs),
			expr.AllowUndefinedVariables(),
			expr.AsBool(),
		}
	}

	env := make(map[string]any, len(c.helperFuncs)+len(c.variables))
	maps.Copy(env, c.helperFuncs)
	maps.Copy(env, c.variables)
	return []expr.Option{
		expr.Env(env),
		expr.AsBool(),
	}
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Eval runs the program against the subject's environment
func (f *exprFilter) Eval(subject Subject) (bool, error) {
	vars := subject.FilterEnv()
	env := make(map[string]any, len(f.helpers)+len(vars))
	maps.Copy(env, f.helpers)
	maps.Copy(env, vars)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// Without declared variables AsBool cannot see the type of a bare identifier
	b, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     fmt.Sprintf("expression did not yield a bool (got %T)", result),
		}
	}
	return b, nil
}

// Evaluate reports whether the subject matches. Subjects that make the
// expression fail at runtime do not match.
func (f *exprFilter) Evaluate(subject Subject) bool {
	ok, err := f.Eval(subject)
	return err == nil && ok
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// Date helpers
	funcs["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	funcs["now"] = time.Now

	// String helpers, case-insensitive. contains, startsWith and endsWith
	// are expr operators and cannot be used as function names.
	funcs["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["hasPrefixFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["hasSuffixFold"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	funcs["equalFold"] = strings.EqualFold
	funcs["isBlank"] = func(str string) bool {
		return strings.TrimSpace(str) == ""
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper

	return funcs
}
