// SPDX-License-Identifier: MIT

package cnmf

// DefaultBackground is whether reconstructions add b·f unless told otherwise.
const DefaultBackground = true

const panicComponentsEmpty = "cnmf: WithComponents: component list must not be empty"

// Option configures a reconstruction.
type Option func(*options)

type options struct {
	comps      []int // nil: Estimates.DefaultComponents
	all        bool  // every component, overrides comps
	background bool
}

// WithComponents restricts the reconstruction to the given components.
// Indices are validated at call time (ErrBadComponent). Panics on an empty list.
func WithComponents(idx ...int) Option {
	if len(idx) == 0 {
		panic(panicComponentsEmpty)
	}
	comps := append([]int(nil), idx...)

	return func(o *options) { o.comps, o.all = comps, false }
}

// WithAllComponents uses every component, ignoring the accepted list.
func WithAllComponents() Option {
	return func(o *options) { o.comps, o.all = nil, true }
}

// WithBackground sets whether b·f is added. Estimates without a background
// reconstruct as if b·f were zero.
func WithBackground(on bool) Option {
	return func(o *options) { o.background = on }
}

// WithoutBackground is WithBackground(false).
func WithoutBackground() Option { return WithBackground(false) }

func gatherOptions(opts []Option) options {
	o := options{background: DefaultBackground}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) resolveComponents(e *Estimates) ([]int, error) {
	switch {
	case o.all:
		return nil, nil // nil selects every column in sparse.MulCols
	case o.comps == nil:
		return e.DefaultComponents(), nil
	default:
		return o.comps, checkComponents(o.comps, e.NComponents())
	}
}
