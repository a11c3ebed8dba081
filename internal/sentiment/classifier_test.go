package sentiment

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiny_stats/internal/domain"
)

func labeled(text string, label domain.Sentiment) domain.LabeledReview {
	return domain.LabeledReview{Review: domain.Review{Text: text}, Label: label}
}

// a small separable corpus: disjoint vocabularies per class
func trainingCorpus() []domain.LabeledReview {
	pos := []string{
		"excellent service spotless finish highly recommend",
		"amazing attention spotless interior excellent results",
		"fantastic wax excellent shine highly recommend",
		"spotless finish fantastic service amazing shine",
	}
	neg := []string{
		"terrible experience rude staff scratched paint",
		"awful rude service terrible scratches everywhere",
		"scratched hood awful experience never again",
		"rude awful terrible never coming back",
	}
	var out []domain.LabeledReview
	for _, p := range pos {
		out = append(out, labeled(p, domain.Positive))
	}
	for _, n := range neg {
		out = append(out, labeled(n, domain.Negative))
	}
	return out
}

func TestTrainAndPredictInSample(t *testing.T) {
	corpus := trainingCorpus()
	m, err := Train(corpus, DefaultConfig())
	require.NoError(t, err)

	for _, r := range corpus {
		assert.Equal(t, r.Label, m.Predict(r.Text), "text: %s", r.Text)
	}
}

func TestPredictUsesTextAlone(t *testing.T) {
	m, err := Train(trainingCorpus(), DefaultConfig())
	require.NoError(t, err)

	// unseen wording built from class-typical vocabulary
	assert.Equal(t, domain.Positive, m.Predict("excellent spotless shine"))
	assert.Equal(t, domain.Negative, m.Predict("rude staff terrible scratches"))
}

func TestTrainIsDeterministic(t *testing.T) {
	corpus := trainingCorpus()
	a, err := Train(corpus, DefaultConfig())
	require.NoError(t, err)
	b, err := Train(corpus, DefaultConfig())
	require.NoError(t, err)

	require.True(t, reflect.DeepEqual(a.W, b.W), "identical input and seed must give identical weights")
	for _, r := range corpus {
		assert.Equal(t, a.Predict(r.Text), b.Predict(r.Text))
	}
}

func TestTrainEmptyCorpus(t *testing.T) {
	_, err := Train(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestTrainSingleClass(t *testing.T) {
	corpus := []domain.LabeledReview{
		labeled("great work", domain.Positive),
		labeled("really great", domain.Positive),
	}
	_, err := Train(corpus, DefaultConfig())
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestTrainEmptyVocabulary(t *testing.T) {
	// two classes but no tokenizable text
	corpus := []domain.LabeledReview{
		labeled("", domain.Positive),
		labeled("!", domain.Negative),
	}
	_, err := Train(corpus, DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyVocab)
}

func TestModelRoundTripsThroughJSON(t *testing.T) {
	corpus := trainingCorpus()
	m, err := Train(corpus, DefaultConfig())
	require.NoError(t, err)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	var back Model
	require.NoError(t, json.Unmarshal(b, &back))

	// a cached model must predict exactly like the freshly trained one
	for _, r := range corpus {
		assert.Equal(t, m.Predict(r.Text), back.Predict(r.Text))
	}
}
