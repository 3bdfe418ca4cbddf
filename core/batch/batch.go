// Package batch drives a batch-shaped function over large aligned inputs so
// that only one batch (or, with Workers > 1, a bounded number of batches) is
// materialized at a time.
//
// Batch i covers items [i*BatchSize, min((i+1)*BatchSize, L)). Outputs are
// concatenated in input order; no item is skipped or repeated.
package batch

import (
	"golang.org/x/sync/errgroup"

	"convscan/core/scanerr"
)

// Event is a progress notification. It has no effect on results.
type Event struct {
	Stage string // what is being counted, e.g. "sequences" or "filters"
	Done  int    // items handled before this notification
	Total int
}

// Observer receives progress events. A nil Observer is a no-op.
type Observer func(Event)

// Notify calls o when it is set.
func (o Observer) Notify(ev Event) {
	if o != nil {
		o(ev)
	}
}

// Options controls batching.
type Options struct {
	BatchSize int

	// ProgressEvery emits an Event to Progress each time dispatch crosses a
	// multiple of this many items. 0 disables progress. Events come from the
	// calling goroutine as batches are handed out, so with Workers > 1 Done
	// counts dispatched items, not finished ones.
	ProgressEvery int
	Progress      Observer
	Stage         string // Event.Stage; "items" when empty

	// Phase is handed unchanged to every call (a mode toggle such as
	// inference vs. training). Nil when unused.
	Phase any

	// Workers > 1 runs up to that many batches concurrently. Output order is
	// unchanged.
	Workers int
}

// Batch is one aligned slice of every input. It is only valid during the call.
type Batch[T any] struct {
	Index      int
	Start, End int
	Inputs     [][]T // Inputs[k] == inputs[k][Start:End]
	Phase      any
}

// Len is the number of items in the batch.
func (b Batch[T]) Len() int { return b.End - b.Start }

// Func maps one batch to its outputs, in item order.
type Func[T, R any] func(b Batch[T]) ([]R, error)

// ModesFunc maps one batch to one output list per mode.
type ModesFunc[T, R any] func(b Batch[T]) ([][]R, error)

// Run applies fn to consecutive batches of inputs and concatenates the results.
func Run[T, R any](inputs [][]T, opt Options, fn Func[T, R]) ([]R, error) {
	const op = "batch.Run"
	parts, err := dispatch[T, []R](op, inputs, opt, fn)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]R, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// RunModes is Run for functions that return several outputs (modes) per
// batch. Mode k of the result is the concatenation of mode k of every batch.
// Every batch must return the same number of modes.
func RunModes[T, R any](inputs [][]T, opt Options, fn ModesFunc[T, R]) ([][]R, error) {
	const op = "batch.RunModes"
	parts, err := dispatch[T, [][]R](op, inputs, opt, fn)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	modes := len(parts[0])
	out := make([][]R, modes)
	for i, p := range parts {
		if len(p) != modes {
			return nil, scanerr.Configf(op, "batch %d returned %d modes, first batch returned %d", i, len(p), modes)
		}
		for m := range p {
			out[m] = append(out[m], p[m]...)
		}
	}
	return out, nil
}

// Count returns the number of batches for n items.
func Count(n, batchSize int) int {
	if n <= 0 || batchSize <= 0 {
		return 0
	}
	return (n + batchSize - 1) / batchSize
}

func dispatch[T, P any](op string, inputs [][]T, opt Options, fn func(Batch[T]) (P, error)) ([]P, error) {
	n, err := validate(op, inputs, opt)
	if err != nil {
		return nil, err
	}
	nb := Count(n, opt.BatchSize)
	parts := make([]P, nb)
	if nb == 0 {
		return parts, nil
	}

	stage := opt.Stage
	if stage == "" {
		stage = "items"
	}
	next := 0
	progress := func(start int) {
		if opt.ProgressEvery <= 0 || start < next {
			return
		}
		opt.Progress.Notify(Event{Stage: stage, Done: start, Total: n})
		next = (start/opt.ProgressEvery + 1) * opt.ProgressEvery
	}

	if opt.Workers <= 1 || nb == 1 {
		for i := 0; i < nb; i++ {
			b := slice(inputs, i, opt, n)
			progress(b.Start)
			p, err := fn(b)
			if err != nil {
				return nil, err
			}
			parts[i] = p
		}
		return parts, nil
	}

	// Each goroutine owns parts[i]; nothing else is shared.
	var g errgroup.Group
	g.SetLimit(opt.Workers)
	for i := 0; i < nb; i++ {
		b := slice(inputs, i, opt, n)
		progress(b.Start)
		g.Go(func() error {
			p, err := fn(b)
			if err != nil {
				return err
			}
			parts[b.Index] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

func validate[T any](op string, inputs [][]T, opt Options) (int, error) {
	if len(inputs) == 0 {
		return 0, scanerr.Preconditionf(op, "input list is empty")
	}
	if opt.BatchSize <= 0 {
		return 0, scanerr.Preconditionf(op, "batch size must be > 0, got %d", opt.BatchSize)
	}
	n := len(inputs[0])
	for k := 1; k < len(inputs); k++ {
		if len(inputs[k]) != n {
			return 0, scanerr.Preconditionf(op, "input %d has %d items, input 0 has %d", k, len(inputs[k]), n)
		}
	}
	return n, nil
}

func slice[T any](inputs [][]T, i int, opt Options, n int) Batch[T] {
	start := i * opt.BatchSize
	end := min(start+opt.BatchSize, n)
	views := make([][]T, len(inputs))
	for k, in := range inputs {
		views[k] = in[start:end:end]
	}
	return Batch[T]{Index: i, Start: start, End: end, Inputs: views, Phase: opt.Phase}
}
