package estimator

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MajorityClassifier predicts the most frequent training label for
// every sample and reports training class frequencies as probability
// estimates. Ties resolve to the smallest label.
type MajorityClassifier struct {
	Base

	// Smoothing is added to every class count before normalizing the
	// probability estimates.
	Smoothing float64 `json:"smoothing"`

	// Fitted state.
	ClassList []int     `json:"class_list,omitempty"`
	Counts    []int     `json:"counts,omitempty"`
	Majority  int       `json:"majority"`
	Proba     []float64 `json:"proba,omitempty"`
}

// NewMajorityClassifier builds a MajorityClassifier from p.
func NewMajorityClassifier(p Params) *MajorityClassifier {
	return &MajorityClassifier{
		Smoothing: paramFloat(p, "Smoothing", 0),
	}
}

// Params implements Object.
func (c *MajorityClassifier) Params() Params {
	return Params{"Smoothing": c.Smoothing}
}

// Clone implements Object.
func (c *MajorityClassifier) Clone() Object {
	return NewMajorityClassifier(c.Params())
}

// Fit counts label frequencies. X is accepted for interface symmetry;
// only its row count is validated.
func (c *MajorityClassifier) Fit(X mat.Matrix, y []int) error {
	r, _ := X.Dims()
	if len(y) == 0 {
		return fmt.Errorf("MajorityClassifier.Fit: empty label vector")
	}
	if r != len(y) {
		return fmt.Errorf("MajorityClassifier.Fit: %d rows but %d labels", r, len(y))
	}
	if c.Smoothing < 0 {
		return fmt.Errorf("MajorityClassifier.Fit: smoothing must be non-negative, got %v", c.Smoothing)
	}

	counts := make(map[int]int)
	for _, label := range y {
		counts[label]++
	}
	c.ClassList = make([]int, 0, len(counts))
	for label := range counts {
		c.ClassList = append(c.ClassList, label)
	}
	sort.Ints(c.ClassList)

	c.Counts = make([]int, len(c.ClassList))
	c.Proba = make([]float64, len(c.ClassList))
	total := float64(len(y)) + c.Smoothing*float64(len(c.ClassList))
	best := -1
	for i, label := range c.ClassList {
		c.Counts[i] = counts[label]
		c.Proba[i] = (float64(counts[label]) + c.Smoothing) / total
		if best < 0 || c.Counts[i] > c.Counts[best] {
			best = i
		}
	}
	c.Majority = c.ClassList[best]

	c.markFitted()
	return nil
}

// Predict returns the majority label for every row of X.
func (c *MajorityClassifier) Predict(X mat.Matrix) ([]int, error) {
	if err := c.requireFitted("MajorityClassifier.Predict"); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := make([]int, r)
	for i := range out {
		out[i] = c.Majority
	}
	return out, nil
}

// PredictProba returns the training class frequencies for every row.
func (c *MajorityClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := c.requireFitted("MajorityClassifier.PredictProba"); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, len(c.ClassList), nil)
	for i := 0; i < r; i++ {
		for j, p := range c.Proba {
			out.Set(i, j, p)
		}
	}
	return out, nil
}

// Classes implements Classifier.
func (c *MajorityClassifier) Classes() ([]int, error) {
	if err := c.requireFitted("MajorityClassifier.Classes"); err != nil {
		return nil, err
	}
	return append([]int(nil), c.ClassList...), nil
}

// FittedParams implements FittedParamsProvider.
func (c *MajorityClassifier) FittedParams() (map[string]any, error) {
	if err := c.requireFitted("MajorityClassifier.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"ClassList": append([]int(nil), c.ClassList...),
		"Majority":  c.Majority,
		"Proba":     append([]float64(nil), c.Proba...),
	}, nil
}
