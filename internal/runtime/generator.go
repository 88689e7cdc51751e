package runtime

import "sync"

// Generator is a suspended frame (spec.md §3, §9): "the simplest portable
// implementation is a trampoline... on hosts offering fibers or stackful
// coroutines, use them." Goroutines are Go's stackful coroutines, so each
// generator runs its body on its own goroutine, parked on resumeCh between
// yields — cooperative and serialized by the caller, exactly as §5
// requires ("no concurrent advances to the same generator").
type Generator struct {
	Name string

	mu        sync.Mutex
	started   bool
	finished  bool
	yieldCh   chan Value
	resumeCh  chan struct{}
	doneCh    chan error
	// Run is supplied by the evaluator: it executes the function body,
	// calling yield(v) at each `yield` expression and returning the
	// function's final return value (or None) when the body finishes.
	Run func(yield func(Value)) (Value, error)

	finalValue Value
	finalErr   error
}

func NewGenerator(name string, run func(yield func(Value)) (Value, error)) *Generator {
	return &Generator{
		Name:     name,
		yieldCh:  make(chan Value),
		resumeCh: make(chan struct{}),
		doneCh:   make(chan error, 1),
		Run:      run,
	}
}

func (g *Generator) Type() string   { return "generator" }
func (g *Generator) String() string { return "<generator object " + g.Name + ">" }
func (g *Generator) Truthy() bool   { return true }

// Advance resumes the generator until its next yield. ok is false once the
// generator body has returned (exhaustion); err surfaces a propagated body
// error.
func (g *Generator) Advance() (value Value, ok bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return nil, false, nil
	}

	if !g.started {
		g.started = true
		go func() {
			v, runErr := g.Run(func(yielded Value) {
				g.yieldCh <- yielded
				<-g.resumeCh
			})
			g.finalValue = v
			g.finalErr = runErr
			g.doneCh <- runErr
		}()
	} else {
		g.resumeCh <- struct{}{}
	}

	select {
	case v := <-g.yieldCh:
		return v, true, nil
	case runErr := <-g.doneCh:
		g.finished = true
		return nil, false, runErr
	}
}
