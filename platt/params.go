package platt

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/dirichlet/arb"
	"github.com/tuneinsight/dirichlet/utils"
)

// ParametersLiteral is a literal representation of the parameters of a
// multi-evaluation. It has public fields and is used to express unchecked
// user-defined parameters literally into Go programs or configuration files.
// The NewParametersFromLiteral function is used to generate the actual
// checked parameters from the literal representation.
//
// The grid has N = A*B points spaced 1/A apart and centered at the height T.
// H is the width of the Gaussian window, J the length of the main sum, K the
// number of Taylor terms and Sigma the shift used by the error bounds.
// Prec is the working precision in bits. Threads is the number of workers
// splitting the main sum; zero stands for runtime.NumCPU().
type ParametersLiteral struct {
	T       int64   `json:"t" yaml:"t"`
	A       int64   `json:"a" yaml:"a"`
	B       int64   `json:"b" yaml:"b"`
	H       float64 `json:"h" yaml:"h"`
	J       int64   `json:"j" yaml:"j"`
	K       int     `json:"k" yaml:"k"`
	Sigma   int64   `json:"sigma" yaml:"sigma"`
	Prec    uint    `json:"prec" yaml:"prec"`
	Threads int     `json:"threads,omitempty" yaml:"threads,omitempty"`
}

// Parameters is the checked, immutable set of parameters of a
// multi-evaluation. See ParametersLiteral for user-specified parameters.
type Parameters struct {
	t, a, b, j, sigma int64
	h                 float64
	k                 int
	prec              uint
	threads           int
}

// ReadParametersLiteral decodes a YAML parameter file.
func ReadParametersLiteral(r io.Reader) (pl ParametersLiteral, err error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err = dec.Decode(&pl); err != nil {
		return ParametersLiteral{}, fmt.Errorf("cannot ReadParametersLiteral: %w", err)
	}
	return
}

// NewParametersFromLiteral checks the literal and instantiates the
// corresponding Parameters. The returned error wraps ErrInvalidArgument.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	switch {
	case pl.A <= 0 || pl.B <= 0:
		return Parameters{}, fmt.Errorf("%w: A = %d and B = %d must be positive", ErrInvalidArgument, pl.A, pl.B)
	case pl.A > math.MaxInt32 || pl.B > math.MaxInt32:
		return Parameters{}, fmt.Errorf("%w: A = %d and B = %d are too large", ErrInvalidArgument, pl.A, pl.B)
	case pl.A*pl.B < 2 || !utils.IsPowerOfTwo(uint(pl.A*pl.B)):
		return Parameters{}, fmt.Errorf("%w: N = A*B = %d must be an even power of two", ErrInvalidArgument, pl.A*pl.B)
	case pl.J < 1:
		return Parameters{}, fmt.Errorf("%w: J = %d must be positive", ErrInvalidArgument, pl.J)
	case pl.K < 1:
		return Parameters{}, fmt.Errorf("%w: K = %d must be positive", ErrInvalidArgument, pl.K)
	case pl.Sigma <= 1 || pl.Sigma%2 == 0:
		return Parameters{}, fmt.Errorf("%w: sigma = %d must be odd and larger than 1", ErrInvalidArgument, pl.Sigma)
	case !(pl.H > 0) || math.IsInf(pl.H, 1):
		return Parameters{}, fmt.Errorf("%w: h = %v must be positive and finite", ErrInvalidArgument, pl.H)
	case float64(pl.T) <= math.Exp(math.E):
		return Parameters{}, fmt.Errorf("%w: T = %d must be larger than exp(e)", ErrInvalidArgument, pl.T)
	case pl.Prec < 2:
		return Parameters{}, fmt.Errorf("%w: prec = %d is too small", ErrInvalidArgument, pl.Prec)
	case pl.Threads < 0:
		return Parameters{}, fmt.Errorf("%w: threads = %d must be non-negative", ErrInvalidArgument, pl.Threads)
	}

	// the error bounds of the grid all scale with C(sigma, T, h, 0)
	if c := CBound(pl.Sigma, arb.NewRealInt64(pl.T), arb.NewRealFloat64(pl.H), 0, 64); !c.IsFinite() {
		return Parameters{}, fmt.Errorf("%w: C(sigma = %d, T = %d, h = %v) is not finite", ErrInvalidArgument, pl.Sigma, pl.T, pl.H)
	}

	threads := pl.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	return Parameters{
		t:       pl.T,
		a:       pl.A,
		b:       pl.B,
		h:       pl.H,
		j:       pl.J,
		k:       pl.K,
		sigma:   pl.Sigma,
		prec:    pl.Prec,
		threads: threads,
	}, nil
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		T:       p.t,
		A:       p.a,
		B:       p.b,
		H:       p.h,
		J:       p.j,
		K:       p.k,
		Sigma:   p.sigma,
		Prec:    p.prec,
		Threads: p.threads,
	}
}

// T returns the center of the grid.
func (p Parameters) T() int64 {
	return p.t
}

// A returns the number of grid points per unit.
func (p Parameters) A() int64 {
	return p.a
}

// B returns the length of the grid.
func (p Parameters) B() int64 {
	return p.b
}

// N returns the number of grid points A*B.
func (p Parameters) N() int {
	return int(p.a * p.b)
}

// H returns the width of the Gaussian window.
func (p Parameters) H() float64 {
	return p.h
}

// J returns the length of the main sum.
func (p Parameters) J() int64 {
	return p.j
}

// K returns the number of Taylor terms.
func (p Parameters) K() int {
	return p.k
}

// Sigma returns the shift of the error bounds.
func (p Parameters) Sigma() int64 {
	return p.sigma
}

// Prec returns the working precision in bits.
func (p Parameters) Prec() uint {
	return p.prec
}

// Threads returns the number of workers splitting the main sum.
func (p Parameters) Threads() int {
	return p.threads
}

// Equal returns true if the two parameter sets are identical.
func (p Parameters) Equal(other Parameters) bool {
	return p == other
}

// MarshalJSON returns a JSON representation of the parameter set.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the
// receiver. The decoded literal is checked.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

// Option overrides a parameter for a single call.
type Option func(*Parameters)

// WithThreads sets the number of workers. Values below one are ignored.
func WithThreads(n int) Option {
	return func(p *Parameters) {
		if n >= 1 {
			p.threads = n
		}
	}
}
