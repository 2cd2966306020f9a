package engine

import "github.com/vmachacek/ledgermind/internal/model"

// TextClassifier is the statistical stage of the waterfall. Implementations
// must keep Classify safe to call concurrently with itself; Train and
// Retrain must be mutually exclusive with in-flight Classify calls.
type TextClassifier interface {
	Train(samples []model.TrainingSample)
	Classify(text string) (category string, confidence float64)
	Retrain(samples []model.TrainingSample) error
	Categories() int
	VocabularySize() int
}

// PayeeMemory is the learned payee stage of the waterfall.
type PayeeMemory interface {
	Lookup(payeeName, iban string) (model.LearnedPayee, bool)
	Learn(payeeName, iban, category string) ([]model.LearnedPayee, error)
	Forget(payeeName string) bool
	Export() map[string]string
	Import(backup map[string]string) int
	Load(entries []model.LearnedPayee) int
	Entries() []model.LearnedPayee
	Size() int
}
