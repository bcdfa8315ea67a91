// Package classes partitions a ranked vocabulary into frequency classes for
// class-factored output layers. Words are ordered by descending frequency and
// split by cumulative normalized square-root frequency mass, so each class
// carries a comparable share of training cost: the square root compresses the
// dominance of very frequent words, keeping classes from degenerating into
// singleton head words or one giant long tail.
package classes

import (
	"fmt"
	"math"

	"wordclass/vocab"
)

// Word is one vocabulary entry with its assigned index and class.
type Word struct {
	Token string
	Count float64
	Class int
}

// Assignment holds the frequency-ranked vocabulary with class ids.
//
// Words[i] is the word at vocabulary index i; indices are assigned in
// non-increasing frequency order. Class ids are non-decreasing along the
// index order. Boundaries lists the lowest vocabulary index of every class
// that received at least one word, in ascending class order; its entries are
// strictly increasing.
type Assignment struct {
	Words      []Word
	Boundaries []int
}

// Partition ranks the retained vocabulary and assigns class ids by scanning
// the ranked order while accumulating normalized sqrt-frequency mass. With
// nbrClasses == 0 the vocabulary is ranked but every word stays in class 0
// and no boundaries are produced.
func Partition(counts map[string]float64, nbrClasses int) (*Assignment, error) {
	if nbrClasses < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrClassCount, nbrClasses)
	}

	ranked := vocab.Ranked(counts)
	words := make([]Word, len(ranked))
	for i, entry := range ranked {
		words[i] = Word{Token: entry.Token, Count: entry.Count}
	}
	assignment := &Assignment{Words: words}
	if nbrClasses == 0 {
		return assignment, nil
	}

	var total float64
	for _, word := range words {
		total += word.Count
	}
	var massNorm float64
	for _, word := range words {
		massNorm += math.Sqrt(word.Count / total)
	}

	df := 0.0
	classID := 0
	prevClassID := -1
	for i := range words {
		df += math.Sqrt(words[i].Count/total) / massNorm
		if df > 1 {
			df = 1
		}
		// the last class absorbs whatever mass remains
		if df > float64(classID+1)/float64(nbrClasses) && classID+1 < nbrClasses {
			classID++
		}
		words[i].Class = classID
		if classID != prevClassID {
			assignment.Boundaries = append(assignment.Boundaries, i)
			prevClassID = classID
		}
	}
	return assignment, nil
}
