package refl

// Bounds is an inclusive [Lower, Upper] range for a parameter value.
type Bounds struct {
	Lower float64
	Upper float64
}

// Width returns Upper - Lower.
func (b Bounds) Width() float64 { return b.Upper - b.Lower }

// Parameter is a named scalar degree of freedom of a model. The Fisher
// engine perturbs Value temporarily during finite-difference sweeps and
// always restores it, even when a model evaluation fails. Parameters are
// owned by the caller's model; the engine only borrows them.
//
// Importance defaults to 1: a zero Importance is read as the default so
// that plain struct literals behave sensibly.
type Parameter struct {
	Name         string
	Value        float64
	Bounds       *Bounds      // nil when unbounded
	Importance   float64      // relative weight in the information matrix
	Varies       bool         // whether the parameter is free in fitting
	Dependencies []*Parameter // parameters this one is coupled to
}

// NewParameter returns a varying parameter with default importance.
func NewParameter(name string, value float64) *Parameter {
	return &Parameter{Name: name, Value: value, Importance: 1, Varies: true}
}

// WithBounds sets the bounds and returns the parameter for chaining.
func (p *Parameter) WithBounds(lower, upper float64) *Parameter {
	p.Bounds = &Bounds{Lower: lower, Upper: upper}
	return p
}

// importance returns the effective importance weight.
func (p *Parameter) importance() float64 {
	if p.Importance == 0 {
		return 1
	}
	return p.Importance
}

// withValue runs fn with the parameter temporarily set to v, restoring the
// original value on every exit path.
func (p *Parameter) withValue(v float64, fn func() ([]float64, error)) ([]float64, error) {
	orig := p.Value
	p.Value = v
	defer func() { p.Value = orig }()
	return fn()
}
