// Package resolve maps an entry point identifier to the member or window
// type of a catalog it designates.
package resolve

import (
	"fmt"
	"strings"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/logflags"
)

const maxSuggestions = 5

// Target is the resolved entry point, exactly one of Method and Window
// is set.
type Target struct {
	Method *catalog.Member
	Window *catalog.Type
}

// IsWindow reports whether the target is a window type.
func (t Target) IsWindow() bool {
	return t.Window != nil
}

func (t Target) String() string {
	if t.Window != nil {
		return t.Window.Name
	}
	if t.Method != nil {
		return t.Method.Name
	}
	return "<none>"
}

// NotFoundError is returned when no window type nor member matches the
// identifier.
type NotFoundError struct {
	Identifier  string
	Suggestions []string
}

func (err *NotFoundError) Error() string {
	msg := fmt.Sprintf("entry point %q not found", err.Identifier)
	if len(err.Suggestions) > 0 {
		msg += ", did you mean " + strings.Join(err.Suggestions, ", ") + "?"
	}
	return msg
}

// Resolve finds the entry point designated by identifier.
//
// Window types of the primary module are matched first, by name ignoring
// case. Then every invocable member is scanned in catalog order and the
// first one whose token, name or raw symbol matches is returned. Names
// are compared ignoring case, so when two members only differ by case the
// first one always wins.
func Resolve(identifier string, cat *catalog.Catalog) (Target, error) {
	logger := logflags.ResolverLogger()

	for _, t := range cat.Types() {
		if t.Window && t.Module == cat.Primary && strings.EqualFold(t.Name, identifier) {
			logger.Debugf("%s resolved to window type %s", identifier, t.Name)
			return Target{Window: t}, nil
		}
	}

	token, isToken := ParseToken(identifier)
	for _, m := range cat.AllMembers(false) {
		if (isToken && m.Token == token) || strings.EqualFold(m.Name, identifier) || strings.EqualFold(m.Symbol, identifier) {
			logger.WithField("token", fmt.Sprintf("%#x", m.Token)).Debugf("%s resolved to %s", identifier, m.Name)
			return Target{Method: m}, nil
		}
	}

	logger.Debugf("%s not found", identifier)
	return Target{}, &NotFoundError{Identifier: identifier, Suggestions: cat.Suggest(identifier, maxSuggestions)}
}
