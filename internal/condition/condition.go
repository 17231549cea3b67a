package condition

import (
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/shi-home/smart-dashboard/internal/config"
)

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Evaluator evaluates visibility condition expressions against a fixed
// environment snapshot taken at construction time.
type Evaluator struct {
	env map[string]any
	log Logger
}

// New builds an evaluator over the current process environment. Every
// environment variable becomes an expression variable, and a lowercase
// "user" variable is always present, resolved from DASHBOARD_USER, then
// SD_USER, then USER. An existing "user" environment variable wins over
// all three.
func New(log Logger) *Evaluator {
	return NewWithEnviron(os.Environ(), log)
}

// NewWithEnviron builds an evaluator over an explicit environment given
// in KEY=value form.
func NewWithEnviron(environ []string, log Logger) *Evaluator {
	if log == nil {
		log = noopLogger{}
	}
	env := make(map[string]any, len(environ)+1)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	if _, ok := env["user"]; !ok {
		env["user"] = firstNonEmpty(env, "DASHBOARD_USER", "SD_USER", "USER")
	}
	return &Evaluator{env: env, log: log}
}

func firstNonEmpty(env map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := env[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Evaluate runs a single expression and reduces its result to a boolean.
// A malformed or failing expression evaluates to false and is logged, so
// a typo in one condition hides that element rather than aborting the
// whole generation run.
func (e *Evaluator) Evaluate(expression string) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return true
	}
	out, err := expr.Eval(expression, e.env)
	if err != nil {
		e.log.Warn("condition evaluation failed, treating as false",
			"condition", expression, "error", err)
		return false
	}
	return truthy(out)
}

// Apply removes rooms and sidebar entries whose conditions evaluate to
// false. A room is visible only when all of its conditions hold. Sidebar
// conditions are consumed here: surviving entries have the condition
// stripped so it never leaks into the generated document.
func (e *Evaluator) Apply(cfg *config.Config) {
	rooms := cfg.Rooms[:0]
	for _, room := range cfg.Rooms {
		if e.roomVisible(room) {
			rooms = append(rooms, room)
		}
	}
	cfg.Rooms = rooms

	sidebar := cfg.Sidebar[:0]
	for _, item := range cfg.Sidebar {
		if !e.Evaluate(item.Condition) {
			continue
		}
		item.Condition = ""
		sidebar = append(sidebar, item)
	}
	cfg.Sidebar = sidebar
}

func (e *Evaluator) roomVisible(room *config.Room) bool {
	for _, cond := range room.Conditions {
		if !e.Evaluate(cond) {
			return false
		}
	}
	return true
}

// truthy reduces an arbitrary expression result to a boolean: false,
// zero, empty string, empty collection and nil are false, everything
// else is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
