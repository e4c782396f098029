// Command host links the fixture package into an executable that keeps its
// debug info. Tests read its structure and bind it to the fixture code
// linked into the test binary.
package main

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/go-delve/runmod/pkg/internal/fixture"
)

func main() {
	exports := fixture.Exports()
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)

	// A method looked up by a name only known at run time keeps every
	// exported method of the types reachable from the exports.
	method := ""
	if len(os.Args) > 1 {
		method = os.Args[1]
	}
	for _, name := range names {
		if m := reflect.ValueOf(exports[name]).MethodByName(method); m.IsValid() {
			fmt.Printf("%s.%s %v\n", name, method, m.Type())
		}
	}
}
