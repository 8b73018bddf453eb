// Package registry resolves configured parser names to implementations:
// built-in parsers compiled into the tool, or user-supplied plugin
// programs referenced by module path.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/statements-dev/statements/internal/config"
	"github.com/statements-dev/statements/internal/model"
	"github.com/statements-dev/statements/internal/plugin"
)

// Parser converts extracted statement text into transactions. This is the
// sole extension surface: any bank-specific variant satisfies it.
type Parser interface {
	Type() string
	ToTransactions(text string) ([]model.Transaction, error)
}

// ResolveError means a configured parser could not be turned into a
// working implementation. It is fatal for the whole run.
type ResolveError struct {
	Type       string
	ModulePath string
	Reason     string
}

func (e ResolveError) Error() string {
	if e.ModulePath != "" {
		return fmt.Sprintf("resolving parser %q (%s): %s", e.Type, e.ModulePath, e.Reason)
	}
	return fmt.Sprintf("resolving parser %q: %s", e.Type, e.Reason)
}

// Registry holds named built-in parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate name.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Type())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser type: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for name, or nil.
func (r *Registry) Get(name string) Parser {
	return r.parsers[strings.ToLower(name)]
}

// Builtin returns a registry with all built-in parsers.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	return r
}

// Resolve turns parser descriptors into Parsers, in config order. A
// descriptor with a module path becomes a plugin parser; otherwise the
// name must match a built-in.
func Resolve(specs []config.ParserSpec) ([]Parser, error) {
	builtins := Builtin()
	parsers := make([]Parser, 0, len(specs))
	for _, spec := range specs {
		if spec.ModulePath != "" {
			if _, err := os.Stat(spec.ModulePath); err != nil {
				return nil, ResolveError{
					Type:       spec.Type,
					ModulePath: spec.ModulePath,
					Reason:     "module not found",
				}
			}
			parsers = append(parsers, plugin.NewParser(spec.Type, spec.ModulePath, spec.Options))
			continue
		}

		p := builtins.Get(spec.Type)
		if p == nil {
			return nil, ResolveError{Type: spec.Type, Reason: "no built-in parser with that name"}
		}
		parsers = append(parsers, p)
	}
	return parsers, nil
}
