package sentiment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"shiny_stats/internal/domain"
)

// Training failure modes. All of them are recoverable: the pipeline falls back
// to the rating-derived labels and keeps going.
var (
	ErrEmptyCorpus = errors.New("sentiment: empty training corpus")
	ErrSingleClass = errors.New("sentiment: fewer than two classes in training data")
	ErrEmptyVocab  = errors.New("sentiment: no usable terms in training corpus")
)

// Config holds the classifier hyperparameters. It is part of the model cache
// key, so changing any field forces a retrain.
type Config struct {
	MaxFeatures int     `json:"max_features"`
	MaxIter     int     `json:"max_iter"`
	LearnRate   float64 `json:"learn_rate"`
	L2          float64 `json:"l2"`
	Seed        int64   `json:"seed"`
}

// DefaultConfig mirrors the hyperparameters the dashboard has always used.
func DefaultConfig() Config {
	return Config{MaxFeatures: 2000, MaxIter: 200, LearnRate: 0.5, L2: 1e-4, Seed: 42}
}

// Key is the hyperparameter part of the content-addressed cache key.
func (c Config) Key() string {
	return fmt.Sprintf("mf=%d,it=%d,lr=%g,l2=%g,seed=%d", c.MaxFeatures, c.MaxIter, c.LearnRate, c.L2, c.Seed)
}

// Model is a fitted multinomial logistic-regression text classifier. All
// fields are exported so a trained model round-trips through the cache as
// JSON.
type Model struct {
	Conf    Config             `json:"conf"`
	Vec     *Vectorizer        `json:"vectorizer"`
	Classes []domain.Sentiment `json:"classes"`
	// W holds one weight row per class; the last column is the bias.
	W [][]float64 `json:"weights"`
}

// Train fits a softmax classifier on (text, rating-derived label) pairs with
// seeded initialization and full-batch gradient descent, so identical input
// always yields identical weights.
func Train(reviews []domain.LabeledReview, cfg Config) (*Model, error) {
	if len(reviews) == 0 {
		return nil, ErrEmptyCorpus
	}

	corpus := make([]string, len(reviews))
	for i, r := range reviews {
		corpus[i] = r.Text
	}

	// Classes in fixed precedence order, restricted to the labels present.
	var classes []domain.Sentiment
	present := map[domain.Sentiment]bool{}
	for _, r := range reviews {
		present[r.Label] = true
	}
	for _, s := range domain.Sentiments {
		if present[s] {
			classes = append(classes, s)
		}
	}
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}

	vec := &Vectorizer{MaxFeatures: cfg.MaxFeatures}
	vec.Fit(corpus)
	if len(vec.Vocab) == 0 {
		return nil, ErrEmptyVocab
	}

	x := make([]featVec, len(corpus))
	for i, doc := range corpus {
		x[i] = vec.Transform(doc)
	}
	y := make([]int, len(reviews))
	classIdx := map[domain.Sentiment]int{}
	for k, c := range classes {
		classIdx[c] = k
	}
	for i, r := range reviews {
		y[i] = classIdx[r.Label]
	}

	nClasses := len(classes)
	dim := len(vec.Vocab) + 1 // +1 bias column
	rng := rand.New(rand.NewSource(cfg.Seed))
	w := make([][]float64, nClasses)
	for k := range w {
		w[k] = make([]float64, dim)
		for d := range w[k] {
			w[k][d] = (rng.Float64() - 0.5) * 1e-3
		}
	}

	n := float64(len(x))
	grad := make([][]float64, nClasses)
	for k := range grad {
		grad[k] = make([]float64, dim)
	}
	probs := make([]float64, nClasses)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		for k := range grad {
			for d := range grad[k] {
				grad[k][d] = 0
			}
		}
		for i, xi := range x {
			softmaxScores(w, xi, probs)
			for k := 0; k < nClasses; k++ {
				g := probs[k]
				if k == y[i] {
					g -= 1
				}
				for j, fi := range xi.idx {
					grad[k][fi] += g * xi.val[j]
				}
				grad[k][dim-1] += g // bias
			}
		}
		for k := 0; k < nClasses; k++ {
			for d := 0; d < dim; d++ {
				step := grad[k][d] / n
				if d != dim-1 {
					step += cfg.L2 * w[k][d]
				}
				w[k][d] -= cfg.LearnRate * step
			}
		}
	}

	return &Model{Conf: cfg, Vec: vec, Classes: classes, W: w}, nil
}

// Predict classifies one review text. Ties resolve to the earlier class in
// precedence order, keeping prediction deterministic.
func (m *Model) Predict(text string) domain.Sentiment {
	xi := m.Vec.Transform(text)
	best, bestScore := 0, math.Inf(-1)
	for k := range m.Classes {
		s := m.score(k, xi)
		if s > bestScore {
			best, bestScore = k, s
		}
	}
	return m.Classes[best]
}

func (m *Model) score(k int, xi featVec) float64 {
	dim := len(m.W[k])
	s := m.W[k][dim-1]
	for j, fi := range xi.idx {
		s += m.W[k][fi] * xi.val[j]
	}
	return s
}

func softmaxScores(w [][]float64, xi featVec, out []float64) {
	dim := len(w[0])
	maxS := math.Inf(-1)
	for k := range w {
		s := w[k][dim-1]
		for j, fi := range xi.idx {
			s += w[k][fi] * xi.val[j]
		}
		out[k] = s
		if s > maxS {
			maxS = s
		}
	}
	var sum float64
	for k := range out {
		out[k] = math.Exp(out[k] - maxS)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
}
