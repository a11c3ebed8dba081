package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenRe matches runs of two or more word characters, the same token shape
// the original vectorizer used.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases the text and returns its unigram tokens.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// ngrams expands tokens into unigrams plus adjacent bigrams ("very clean").
func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// featVec is a sparse TF-IDF document vector.
type featVec struct {
	idx []int
	val []float64
}

// Vectorizer is a bag-of-n-grams TF-IDF encoder: unigrams + bigrams, the
// vocabulary capped at the MaxFeatures most frequent terms over the training
// corpus (frequency ties broken alphabetically so fitting is deterministic),
// smoothed IDF, L2-normalized rows. No stopword filtering is applied here; the
// full vocabulary is eligible.
type Vectorizer struct {
	MaxFeatures int            `json:"max_features"`
	Vocab       map[string]int `json:"vocab"`
	IDF         []float64      `json:"idf"`
}

// Fit builds the capped vocabulary and IDF table from the corpus.
func (v *Vectorizer) Fit(corpus []string) {
	counts := map[string]int{}  // total term frequency across the corpus
	docFreq := map[string]int{} // number of documents containing the term
	for _, doc := range corpus {
		terms := ngrams(Tokenize(doc))
		seen := map[string]bool{}
		for _, t := range terms {
			counts[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}

	v.Vocab = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, t := range terms {
		v.Vocab[t] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
}

// Transform encodes one document against the fitted vocabulary.
func (v *Vectorizer) Transform(doc string) featVec {
	tf := map[int]float64{}
	for _, t := range ngrams(Tokenize(doc)) {
		if i, ok := v.Vocab[t]; ok {
			tf[i]++
		}
	}

	idx := make([]int, 0, len(tf))
	for i := range tf {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	vec := featVec{idx: idx, val: make([]float64, len(idx))}
	var norm float64
	for k, i := range idx {
		w := tf[i] * v.IDF[i]
		vec.val[k] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vec.val {
			vec.val[k] /= norm
		}
	}
	return vec
}
