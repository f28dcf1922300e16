package curve

// LinearFit joins keyframes with straight segments and extrapolates along
// the first and last segment.
type LinearFit struct {
	t []float64
	y [][]float64
}

var _ Fit = (*LinearFit)(nil)

// NewLinear fits y over the increasing times t. It needs at least two
// keyframes.
func NewLinear(t []float64, y [][]float64) *LinearFit {
	return &LinearFit{t: t, y: y}
}

// Times implements [Fit].
func (f *LinearFit) Times() []float64 { return f.t }

// Pos implements [Fit].
func (f *LinearFit) Pos(t float64, v []float64) {
	for j := range f.y[0] {
		v[j] = f.PosAt(t, j)
	}
}

// PosAt implements [Fit].
func (f *LinearFit) PosAt(t float64, j int) float64 {
	i := segment(f.t, t)
	x := (t - f.t[i]) / (f.t[i+1] - f.t[i])
	return f.y[i][j] + x*(f.y[i+1][j]-f.y[i][j])
}

// Slope implements [Fit].
func (f *LinearFit) Slope(t float64, v []float64) {
	for j := range f.y[0] {
		v[j] = f.SlopeAt(t, j)
	}
}

// SlopeAt implements [Fit].
func (f *LinearFit) SlopeAt(t float64, j int) float64 {
	i := segment(f.t, t)
	return (f.y[i+1][j] - f.y[i][j]) / (f.t[i+1] - f.t[i])
}
