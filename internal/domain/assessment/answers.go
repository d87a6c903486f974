package assessment

// AnswerStore maps question ids to the selected Likert value. A question with
// no entry is unanswered. Entries are only ever overwritten or cleared together.
type AnswerStore map[string]int

// Get returns the recorded value for a question.
func (a AnswerStore) Get(questionID string) (int, bool) {
	v, ok := a[questionID]
	return v, ok
}

func (a AnswerStore) Has(questionID string) bool {
	_, ok := a[questionID]
	return ok
}

// Clone returns an independent copy.
func (a AnswerStore) Clone() AnswerStore {
	out := make(AnswerStore, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
