package runtime

// BreakSignal, ContinueSignal and ReturnSignal are the three internal
// non-value control-flow carriers spec.md §4.1 and §9 describe: the
// dispatcher propagates them through Go's normal (Value, error) return
// exactly like a raised exception, but the enclosing loop or function frame
// consumes them before they ever reach user code. An uncaptured signal
// becomes a classified InternalError at the top level.
type BreakSignal struct{}

func (BreakSignal) Error() string { return "'break' outside loop" }

type ContinueSignal struct{}

func (ContinueSignal) Error() string { return "'continue' outside loop" }

// ReturnSignal carries the returned value up to the nearest function frame.
type ReturnSignal struct{ Value Value }

func (ReturnSignal) Error() string { return "'return' outside function" }

// StopIteration is raised internally when `next()` is called on an
// exhausted generator/iterator with no default supplied.
type StopIteration struct{}

func (StopIteration) Error() string { return "StopIteration" }
