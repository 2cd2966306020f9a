package engine

// Stats is a read-only snapshot of the engine's derived state.
type Stats struct {
	ActiveRules      int
	LearnedPayees    int
	MLClasses        int
	MLVocabularySize int
}

// GetStats reports counts across all three stages. Purely derived; no locks
// are held across stages, so the snapshot is per-stage consistent.
func (e *Engine) GetStats() Stats {
	return Stats{
		ActiveRules:      e.currentMatcher().ActiveCount(),
		LearnedPayees:    e.payees.Size(),
		MLClasses:        e.classifier.Categories(),
		MLVocabularySize: e.classifier.VocabularySize(),
	}
}
