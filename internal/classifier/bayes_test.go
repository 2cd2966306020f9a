package classifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

func trainingSet() []model.TrainingSample {
	return []model.TrainingSample{
		{Text: "netflix com streaming", Category: "entertainment"},
		{Text: "spotify premium streaming", Category: "entertainment"},
		{Text: "albert supermarket praha", Category: "groceries"},
		{Text: "tesco stores supermarket", Category: "groceries"},
		{Text: "billa supermarket", Category: "groceries"},
	}
}

func TestClassifier_Untrained(t *testing.T) {
	c := New()

	category, confidence := c.Classify("netflix com")
	assert.Empty(t, category)
	assert.Zero(t, confidence)
	assert.Zero(t, c.Categories())
	assert.Zero(t, c.VocabularySize())
}

func TestClassifier_Classify(t *testing.T) {
	c := New()
	c.Train(trainingSet())

	tests := []struct {
		name         string
		text         string
		wantCategory string
	}{
		{"streaming vocabulary", "NETFLIX COM", "entertainment"},
		{"grocery vocabulary", "ALBERT supermarket", "groceries"},
		{"shared token resolved by frequency", "supermarket", "groceries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, confidence := c.Classify(tt.text)
			assert.Equal(t, tt.wantCategory, category)
			assert.Greater(t, confidence, 0.0)
			assert.LessOrEqual(t, confidence, 1.0)
		})
	}
}

func TestClassifier_UnknownTokensGiveNoSignal(t *testing.T) {
	c := New()
	c.Train(trainingSet())

	category, confidence := c.Classify("zzzzz qqqqq")
	assert.Empty(t, category)
	assert.Zero(t, confidence)

	category, confidence = c.Classify("")
	assert.Empty(t, category)
	assert.Zero(t, confidence)
}

func TestClassifier_TrainZeroSamplesIsNoOp(t *testing.T) {
	c := New()
	c.Train(trainingSet())
	vocab := c.VocabularySize()

	c.Train(nil)
	c.Train([]model.TrainingSample{})

	assert.Equal(t, vocab, c.VocabularySize())
}

func TestClassifier_TrainIsAdditive(t *testing.T) {
	c := New()
	c.Train(trainingSet())
	require.Equal(t, 2, c.Categories())

	c.Train([]model.TrainingSample{{Text: "czech railways ticket", Category: "transport"}})

	assert.Equal(t, 3, c.Categories())

	category, _ := c.Classify("railways ticket")
	assert.Equal(t, "transport", category)
}

func TestClassifier_RetrainReplacesModel(t *testing.T) {
	c := New()
	c.Train(trainingSet())

	err := c.Retrain([]model.TrainingSample{{Text: "gym membership fitness", Category: "health"}})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Categories())

	// Old vocabulary is gone.
	category, confidence := c.Classify("netflix streaming")
	assert.Empty(t, category)
	assert.Zero(t, confidence)

	category, _ = c.Classify("gym fitness")
	assert.Equal(t, "health", category)
}

func TestClassifier_RetrainToEmpty(t *testing.T) {
	c := New()
	c.Train(trainingSet())

	require.NoError(t, c.Retrain(nil))

	category, confidence := c.Classify("netflix")
	assert.Empty(t, category)
	assert.Zero(t, confidence)
	assert.Zero(t, c.Categories())
}

func TestClassifier_ConcurrentRetrainRejected(t *testing.T) {
	c := New()

	// Large enough that retrains overlap reliably.
	samples := make([]model.TrainingSample, 0, 20000)
	for i := 0; i < 10000; i++ {
		samples = append(samples,
			model.TrainingSample{Text: "netflix com streaming", Category: "entertainment"},
			model.TrainingSample{Text: "albert supermarket", Category: "groceries"},
		)
	}

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Retrain(samples)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, common.ErrRetrainInFlight)
			assert.True(t, common.IsRetryable(err))
		}
	}
	assert.GreaterOrEqual(t, succeeded, 1, "at least one retrain must win")
}

func TestClassifier_ClassifySafeDuringRetrain(t *testing.T) {
	c := New()
	c.Train(trainingSet())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, confidence := c.Classify("netflix supermarket")
			assert.GreaterOrEqual(t, confidence, 0.0)
			assert.LessOrEqual(t, confidence, 1.0)
		}
	}()

	for i := 0; i < 20; i++ {
		// Losing the race to another retrain is fine; there is none here.
		require.NoError(t, c.Retrain(trainingSet()))
	}
	<-done
}
