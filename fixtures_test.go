package pysb_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/go-pysb"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/gkampitakis/go-snaps/snaps"
)

// fixture scripts exercised end to end through pysb.Evaluate, snapshotting
// the repr of the final value plus the print output with go-snaps. There
// is no external fixture corpus to read from disk here, so the scripts
// are inlined instead of glob-loaded from testdata.
var fixtures = []struct {
	name   string
	source string
}{
	{"arithmetic", "x = 3\ny = x * 2 + 1\ny"},
	{"string_slice_reverse", "'hello'[1:3][::-1]"},
	{"list_comprehension", "[i * i for i in range(5)]"},
	{"dict_and_loop", `
d = {"a": 1, "b": 2}
total = 0
for k in d:
    total += d[k]
total`},
	{"closures", `
def make_adder(n):
    def adder(x):
        return x + n
    return adder
add5 = make_adder(5)
add5(10)`},
	{"class_and_inheritance", `
class Animal:
    def __init__(self, name):
        self.name = name
    def speak(self):
        return self.name + " makes a sound"

class Dog(Animal):
    def speak(self):
        return self.name + " barks"

Dog("Rex").speak()`},
	{"exceptions", `
class ValidationError:
    def __init__(self, message):
        self.message = message

def risky():
    raise ValidationError("bad input")

try:
    risky()
except ValidationError as e:
    result = "caught: " + e.message
result`},
}

func TestFixtures(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			var out strings.Builder
			result, err := pysb.Evaluate(fx.source, pysb.WithStdout(&out), pysb.WithAuthorizedImports([]string{"*"}))
			var report string
			if err != nil {
				report = fmt.Sprintf("error: %v\nprinted: %s", err, out.String())
			} else {
				report = fmt.Sprintf("value: %s\nprinted: %s", runtime.Repr(result), out.String())
			}
			snaps.MatchSnapshot(t, report)
		})
	}
}
