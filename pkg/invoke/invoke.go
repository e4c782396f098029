// Package invoke calls a resolved entry point: it builds the receiver of
// methods, synthesizes the arguments and turns panics of the invoked code
// into faults.
package invoke

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/go-delve/runmod/pkg/catalog"
	"github.com/go-delve/runmod/pkg/logflags"
	"github.com/go-delve/runmod/pkg/resolve"
	"github.com/go-delve/runmod/pkg/synth"
)

// Result is the outcome of an invocation. Windows have no result values.
type Result struct {
	Target string
	Values []reflect.Value
}

// Invoker runs entry points of a catalog. An Invoker is good for a
// single run.
type Invoker struct {
	Catalog *catalog.Catalog
	// Args are the strings handed to string parameters.
	Args []string

	state State
	log   logflags.Logger
}

// New returns an invoker for the entry points of cat.
func New(cat *catalog.Catalog, args []string) *Invoker {
	return &Invoker{Catalog: cat, Args: args, log: logflags.InvokeLogger()}
}

// State returns the stage the run has reached.
func (inv *Invoker) State() State {
	return inv.state
}

// Run resolves identifier and invokes the entry point it designates.
func (inv *Invoker) Run(identifier string) (*Result, error) {
	inv.state = Resolving
	tgt, err := resolve.Resolve(identifier, inv.Catalog)
	if err != nil {
		inv.state = Failed
		return nil, err
	}
	return inv.Invoke(tgt)
}

// Invoke invokes tgt. Windows are constructed and displayed, methods are
// called on a freshly constructed receiver with synthesized arguments.
// Panics of the module's code are returned as a *Fault.
func (inv *Invoker) Invoke(tgt resolve.Target) (*Result, error) {
	if inv.log == nil {
		inv.log = logflags.InvokeLogger()
	}
	defer func() {
		inv.state = Done
	}()
	switch {
	case tgt.Window != nil:
		inv.state = WindowInvoking
		return inv.invokeWindow(tgt.Window)
	case tgt.Method != nil:
		inv.state = MethodInvoking
		return inv.invokeMethod(tgt.Method)
	}
	return nil, fmt.Errorf("empty target")
}

func (inv *Invoker) invokeWindow(t *catalog.Type) (*Result, error) {
	if t.RType == nil || t.Display == "" {
		return nil, fmt.Errorf("%s is not bound to a live window type", t.Name)
	}
	w, err := inv.construct(t.RType, t.Name)
	if err != nil {
		return nil, err
	}
	show := w.MethodByName(t.Display)
	inv.log.Debugf("displaying %s with %s", t.Name, t.Display)
	if _, err := call(t.Name+"."+t.Display, show, nil, false); err != nil {
		return nil, err
	}
	return &Result{Target: t.Name}, nil
}

func (inv *Invoker) invokeMethod(m *catalog.Member) (*Result, error) {
	if !m.Invocable {
		return nil, fmt.Errorf("%s is not bound to a live function", m.Name)
	}
	var args []reflect.Value
	if !m.Static {
		rcvr, err := inv.construct(m.Func.Type().In(0).Elem(), m.Name)
		if err != nil {
			return nil, err
		}
		args = append(args, rcvr)
	}
	args = append(args, synth.New(inv.Args, inv.Catalog).Synthesize(m.ParamTypes())...)
	for i, arg := range args {
		if !arg.IsValid() {
			return nil, fmt.Errorf("could not synthesize argument %d of %s", i, m.Name)
		}
	}

	inv.log.WithField("token", fmt.Sprintf("%#x", m.Token)).Debugf("calling %s%s", m.Name, m.Signature())
	out, err := call(m.Name, m.Func, args, m.Variadic)
	if err != nil {
		return nil, err
	}
	return &Result{Target: m.Name, Values: out}, nil
}

// construct returns a pointer to a new value of type t, built by its
// constructor when the module has one. A panicking constructor is fatal.
func (inv *Invoker) construct(t reflect.Type, target string) (reflect.Value, error) {
	ctor, ok := inv.Catalog.Constructor(t)
	if !ok {
		inv.log.Debugf("allocating %v for %s", t, target)
		return reflect.New(t), nil
	}
	inv.log.Debugf("constructing %v with %s", t, ctor.Name)
	out, err := call(ctor.Name, ctor.Func, nil, false)
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok := synth.Adapt(out[0], reflect.PointerTo(t))
	if !ok {
		return reflect.Value{}, fmt.Errorf("constructor %s of %s returned %v", ctor.Name, target, out[0])
	}
	return v, nil
}

func call(target string, fn reflect.Value, args []reflect.Value, variadic bool) (out []reflect.Value, err error) {
	defer func() {
		if ierr := recover(); ierr != nil {
			err = &Fault{Target: target, Value: ierr, Stack: debug.Stack()}
		}
	}()
	if variadic {
		return fn.CallSlice(args), nil
	}
	return fn.Call(args), nil
}
