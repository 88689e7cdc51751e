package evaluator

import (
	"github.com/cwbudde/go-pysb/internal/errors"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/cwbudde/go-pysb/internal/token"
)

// toSlice eagerly materializes any of the host language's iterables into a
// Go slice; used where the whole sequence must be known up front (starred
// splicing in literals and call arguments, destructuring). For-loops and comprehensions
// use forEach instead so an unbounded generator is still caught by the
// loop-iteration ceiling rather than being materialized in full.
func (in *Interp) toSlice(v runtime.Value, pos token.Position) ([]runtime.Value, error) {
	switch t := v.(type) {
	case *runtime.List:
		return t.Elems, nil
	case *runtime.Tuple:
		return t.Elems, nil
	case *runtime.SetValue:
		return t.Elems(), nil
	case *runtime.Dict:
		return t.Keys(), nil
	case runtime.Str:
		runes := []rune(string(t))
		out := make([]runtime.Value, len(runes))
		for i, r := range runes {
			out[i] = runtime.Str(string(r))
		}
		return out, nil
	case *runtime.Generator:
		var out []runtime.Value
		for {
			val, ok, err := t.Advance()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			out = append(out, val)
		}
		return out, nil
	}
	return nil, errors.NewAt(errors.KindType, pos, "'%s' object is not iterable", v.Type())
}

// forEach drives body once per element of v's iteration protocol, honoring
// the loop-iteration ceiling per element rather than materializing an
// unbounded generator in full. body returns (stop, err): stop ends the loop
// early (a `break`), without it being an error.
func (in *Interp) forEach(v runtime.Value, pos token.Position, body func(runtime.Value) (bool, error)) error {
	if gen, ok := v.(*runtime.Generator); ok {
		count := int64(0)
		for {
			count++
			if in.Limits.MaxLoopIterations > 0 && count > in.Limits.MaxLoopIterations {
				return errors.NewAt(errors.KindIterationLimit, pos, "loop exceeded %d iterations", in.Limits.MaxLoopIterations)
			}
			val, ok, err := gen.Advance()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			stop, err := body(val)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
	seq, err := in.toSlice(v, pos)
	if err != nil {
		return err
	}
	for i, elem := range seq {
		if in.Limits.MaxLoopIterations > 0 && int64(i+1) > in.Limits.MaxLoopIterations {
			return errors.NewAt(errors.KindIterationLimit, pos, "loop exceeded %d iterations", in.Limits.MaxLoopIterations)
		}
		stop, err := body(elem)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}
