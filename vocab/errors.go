package vocab

import "errors"

var (
	// ErrNoEligibleWords means every token fell at or below the cutoff count.
	ErrNoEligibleWords = errors.New("no word remained after cutoff")

	// ErrVocabSize means the requested vocabulary size is smaller than one.
	ErrVocabSize = errors.New("vocabulary size must be at least 1")
)
