package classifier

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

// bayesModel holds the vocabulary and per-category frequency tables for
// multinomial scoring with additive (Laplace) smoothing. All counts are
// non-negative; every token in a frequency table exists in the vocabulary.
type bayesModel struct {
	vocabulary  map[string]int            // token -> numeric id, unbounded growth
	tokenCounts map[string]map[string]int // category -> token -> count
	tokenTotals map[string]int            // category -> total token count
	docCounts   map[string]int            // category -> document count
	totalDocs   int
}

func newBayesModel() *bayesModel {
	return &bayesModel{
		vocabulary:  make(map[string]int),
		tokenCounts: make(map[string]map[string]int),
		tokenTotals: make(map[string]int),
		docCounts:   make(map[string]int),
	}
}

// train updates the frequency tables from the given samples. Samples whose
// text tokenizes to nothing still count as documents for their category.
func (m *bayesModel) train(samples []model.TrainingSample) {
	for _, sample := range samples {
		if sample.Category == "" {
			continue
		}

		tokens := Tokenize(sample.Text)

		counts, ok := m.tokenCounts[sample.Category]
		if !ok {
			counts = make(map[string]int)
			m.tokenCounts[sample.Category] = counts
		}

		for _, token := range tokens {
			if _, seen := m.vocabulary[token]; !seen {
				m.vocabulary[token] = len(m.vocabulary)
			}
			counts[token]++
			m.tokenTotals[sample.Category]++
		}

		m.docCounts[sample.Category]++
		m.totalDocs++
	}
}

// classify scores the tokens against every known category and returns the
// winner with a confidence in [0,1]. Confidence is the winner's share of the
// total score mass. Tokens outside the vocabulary contribute nothing; if no
// token is recognized the result is empty with confidence 0.
func (m *bayesModel) classify(tokens []string) (string, float64) {
	if m.totalDocs == 0 || len(m.docCounts) == 0 {
		return "", 0
	}

	known := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := m.vocabulary[token]; ok {
			known = append(known, token)
		}
	}
	if len(known) == 0 {
		return "", 0
	}

	vocabSize := len(m.vocabulary)

	// Log-space scoring avoids underflow on longer inputs.
	logScores := make(map[string]float64, len(m.docCounts))
	best := ""
	bestLog := math.Inf(-1)

	for category, docs := range m.docCounts {
		score := math.Log(float64(docs) / float64(m.totalDocs))
		counts := m.tokenCounts[category]
		total := m.tokenTotals[category]

		for _, token := range known {
			score += math.Log(float64(counts[token]+1) / float64(total+vocabSize))
		}

		logScores[category] = score
		if score > bestLog {
			bestLog = score
			best = category
		}
	}

	// Normalize relative to the total mass across categories.
	var mass float64
	for _, score := range logScores {
		mass += math.Exp(score - bestLog)
	}
	if mass == 0 {
		return "", 0
	}

	confidence := 1.0 / mass
	if confidence > 1 {
		confidence = 1
	}
	return best, confidence
}

// Classifier wraps the model with the concurrency guarantees the engine
// relies on: Train mutates under an exclusive lock, Classify reads under a
// shared lock, and Retrain builds a fresh model off-lock and publishes it
// atomically so in-flight reads never observe a half-updated model.
type Classifier struct {
	model      *bayesModel
	mu         sync.RWMutex
	retraining atomic.Bool
}

// New creates an untrained classifier.
func New() *Classifier {
	return &Classifier{model: newBayesModel()}
}

// Train incrementally updates the model. Training with zero samples is a
// no-op, not an error.
func (c *Classifier) Train(samples []model.TrainingSample) {
	if len(samples) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.model.train(samples)
}

// Classify tokenizes the text and returns the best category with its
// confidence. An empty or unrecognized text yields ("", 0); so does an
// untrained model, which the engine treats as a normal no-signal outcome.
func (c *Classifier) Classify(text string) (string, float64) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return "", 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.classify(tokens)
}

// Retrain discards all counts and vocabulary and rebuilds the model from the
// given samples. A second retrain while one is in flight is rejected with
// ErrRetrainInFlight, which is retryable.
func (c *Classifier) Retrain(samples []model.TrainingSample) error {
	if !c.retraining.CompareAndSwap(false, true) {
		return common.ErrRetrainInFlight
	}
	defer c.retraining.Store(false)

	fresh := newBayesModel()
	fresh.train(samples)

	c.mu.Lock()
	c.model = fresh
	c.mu.Unlock()

	return nil
}

// Categories returns the number of trained categories.
func (c *Classifier) Categories() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.model.docCounts)
}

// VocabularySize returns the number of distinct tokens seen in training.
func (c *Classifier) VocabularySize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.model.vocabulary)
}
