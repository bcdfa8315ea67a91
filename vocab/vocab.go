package vocab

import (
	"fmt"
	"log"
	"sort"

	"wordclass/corpus"
	"wordclass/util"
)

// DefaultUnkToken is the name of the unknown bucket when none is configured.
const DefaultUnkToken = "<unk>"

// Entry is a token with its accumulated frequency.
type Entry struct {
	Token string
	Count float64
}

// Selection is the outcome of bounding a frequency table to a vocabulary.
type Selection struct {
	// Counts holds the retained tokens, unknown bucket included.
	Counts map[string]float64
	// UnknownCount is the frequency mass folded into the unknown bucket.
	UnknownCount float64
	// VocabSize is the effective size after any clamp; == len(Counts).
	VocabSize int
	// Clamped reports that the requested size exceeded the eligible count.
	Clamped bool
}

// Ranked returns the entries of a frequency table ordered by descending
// count. Equal counts are ordered by ascending token string so that ranking
// is deterministic across runs and platforms.
func Ranked(tf map[string]float64) []Entry {
	entries := make([]Entry, 0, len(tf))
	for token, count := range tf {
		entries = append(entries, Entry{Token: token, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
	return entries
}

// Select bounds a frequency table to at most vocabSize tokens, folding all
// remaining frequency mass into the unknown bucket named by unkToken.
//
// Tokens with a count at or below cutoff are not eligible for ranking; a
// cutoff of zero or less disables the exclusion. When vocabSize exceeds the
// eligible token count it is clamped with a warning. The highest-ranked
// vocabSize-1 tokens are retained and the bucket takes the final slot. A
// selected token whose string equals unkToken gives up its slot: its count
// moves into the bucket and the selection budget grows by one, so the final
// vocabulary still reaches the target size without a duplicate entry.
func Select(tf corpus.TermFreq, vocabSize, cutoff int, unkToken string) (*Selection, error) {
	if vocabSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrVocabSize, vocabSize)
	}
	if unkToken == "" {
		unkToken = DefaultUnkToken
	}

	eligible := 0
	for _, count := range tf {
		if cutoff <= 0 || count > float64(cutoff) {
			eligible++
		}
	}
	if eligible == 0 {
		return nil, fmt.Errorf("%w: threshold %d", ErrNoEligibleWords, cutoff)
	}

	clamped := false
	if vocabSize > eligible {
		log.Printf(util.TerminalYellow+"Warning: actual vocabulary size is less than required."+util.TerminalReset)
		log.Printf("\t\tRequired vocabulary size: %d", vocabSize)
		log.Printf("\t\tActual vocabulary size: %d", len(tf))
		log.Printf("\t\tActual vocabulary size after cutoff: %d", eligible)
		log.Printf("\t\tWe will change to actual vocabulary size: %d", eligible)
		vocabSize = eligible
		clamped = true
	}

	entries := Ranked(map[string]float64(tf))

	retained := make(map[string]float64, vocabSize)
	var unkCount float64
	limit := vocabSize - 1
	taken := 0
	next := 0
	for taken < limit && next < len(entries) {
		taken++
		entry := entries[next]
		next++
		if entry.Token == unkToken {
			// the unk token's own occurrences belong to the bucket; its slot
			// is handed back to the ranking
			unkCount += entry.Count
			limit++
		}
		retained[entry.Token] = entry.Count
	}
	for ; next < len(entries); next++ {
		unkCount += entries[next].Count
	}
	retained[unkToken] = unkCount

	return &Selection{
		Counts:       retained,
		UnknownCount: unkCount,
		VocabSize:    len(retained),
		Clamped:      clamped,
	}, nil
}
