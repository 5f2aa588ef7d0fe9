// Package groups maintains named host groups backed by hostlist
// expressions.
package groups

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
)

// ErrNotFound is returned when no group with the requested name exists.
var ErrNotFound = errors.New("group not found")

// MaxNameLength is the maximum length of a group name.
const MaxNameLength = 64

var validGroupName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Registry is a thread-safe in-memory mapping of group names to
// hostlist expressions.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]string
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{groups: make(map[string]string)}
}

// Set stores a group after validating its name and expression. The
// expression is parsed up front so later lookups never hit a syntax
// error.
func (r *Registry) Set(name, expression string) error {
	if !validGroupName.MatchString(name) || len(name) > MaxNameLength {
		return fmt.Errorf("invalid group name %q", name)
	}
	if _, err := hostlist.Parse(expression); err != nil {
		return fmt.Errorf("invalid expression for group %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[name] = expression
	return nil
}

// Get returns the expression stored under name.
func (r *Registry) Get(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expr, ok := r.groups[name]
	if !ok {
		return "", fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return expr, nil
}

// Delete removes a group.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[name]; !ok {
		return fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	delete(r.groups, name)
	return nil
}

// Names returns all group names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand resolves the named group into its hostnames.
func (r *Registry) Expand(name string) ([]string, error) {
	expr, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return hostlist.Expand(expr)
}

// Len returns the number of stored groups.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
