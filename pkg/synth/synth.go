// Package synth produces best effort arguments for functions whose
// signature is only known at run time.
package synth

import (
	"reflect"

	"github.com/go-delve/runmod/pkg/logflags"
)

// Synthesizer tries its strategies in order for every parameter. Types no
// strategy can build get their zero value, as Alloc would give them.
type Synthesizer struct {
	Strategies []Strategy
}

// New returns the default synthesizer: caller supplied strings first,
// then empty arrays, nil placeholders, module constructors, made maps
// and channels and finally zero values.
func New(args []string, ctors ConstructorFinder) *Synthesizer {
	return &Synthesizer{Strategies: []Strategy{
		&Supplied{Args: args},
		Array{},
		Placeholder{},
		Constructor{Finder: ctors},
		Make{},
		Alloc{},
	}}
}

// Synthesize returns one value per parameter type.
func (s *Synthesizer) Synthesize(params []reflect.Type) []reflect.Value {
	logger := logflags.InvokeLogger()
	r := make([]reflect.Value, len(params))
	for i, t := range params {
		if t == nil {
			// type unknown to the live image, there is nothing to build
			continue
		}
		for _, strategy := range s.Strategies {
			if v, ok := strategy.Construct(t); ok {
				logger.Debugf("argument %d (%v): %s", i, t, strategy.Name())
				r[i] = v
				break
			}
		}
		if !r[i].IsValid() {
			r[i], _ = Alloc{}.Construct(t)
		}
	}
	return r
}
