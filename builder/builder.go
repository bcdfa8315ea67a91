// Package builder drives the vocabulary-and-class build: it counts the
// corpus, bounds the vocabulary, partitions it into classes and writes the
// vocabulary, word-to-class and class-to-index artifacts.
package builder

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"wordclass/classes"
	"wordclass/corpus"
	"wordclass/logger"
	"wordclass/util"
	"wordclass/vocab"
)

// Config carries every setting of a build run. There is no global state: the
// whole configuration is passed explicitly.
type Config struct {
	VocabSize  int
	NbrClasses int // 0 disables class output entirely
	Cutoff     int // tokens with count <= Cutoff are ineligible; <= 0 disables

	InputFile       string
	OutputVocabFile string
	OutputWord2Cls  string // required when NbrClasses > 0
	OutputCls2Index string // required when NbrClasses > 0

	UnkToken string // defaults to vocab.DefaultUnkToken

	// Sentinel markers. An empty string disables that side's insertion, but
	// both must be set explicitly: the old hard-coded "</s>" default is gone
	// on purpose.
	BeginSequence    string
	EndSequence      string
	BeginSequenceSet bool
	EndSequenceSet   bool

	StemLanguage string // optional snowball stemming of counted tokens
	MakeMode     bool   // skip the build when all outputs are newer than the corpus
	WriteCache   bool   // also write a gob+gzip snapshot of the built model
}

// Result summarizes a build run.
type Result struct {
	UpToDate        bool // make mode found all outputs current; nothing was built
	VocabSize       int  // effective vocabulary size after any clamp
	ClassesAssigned int  // number of classes that received at least one word
	Clamped         bool // requested size exceeded the eligible token count
}

// Run executes one build with the given configuration. Fatal conditions
// abort immediately; artifacts already written in the same run are left
// as-is.
func Run(cfg Config, fops FileOps) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.UnkToken == "" {
		cfg.UnkToken = vocab.DefaultUnkToken
	}

	log.Printf("Vocabulary file:    %s", cfg.OutputVocabFile)
	if cfg.NbrClasses > 0 {
		log.Printf("Word-to-class map:  %s", cfg.OutputWord2Cls)
		log.Printf("Class-to-index map: %s", cfg.OutputCls2Index)
	}

	if cfg.MakeMode && upToDate(cfg) {
		log.Printf(util.TerminalGreen + "All output files up to date." + util.TerminalReset)
		return &Result{UpToDate: true}, nil
	}

	log.Printf("Reading input file: %s", cfg.InputFile)
	tf, err := corpus.CountFile(cfg.InputFile, corpus.Options{
		BeginSequence: cfg.BeginSequence,
		EndSequence:   cfg.EndSequence,
		StemLanguage:  cfg.StemLanguage,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Vocabulary size %d.", len(tf))

	selection, err := vocab.Select(tf, cfg.VocabSize, cfg.Cutoff, cfg.UnkToken)
	if err != nil {
		// an empty eligible vocabulary means the cutoff contradicts the
		// corpus, which is a configuration problem, not an I/O one
		if errors.Is(err, vocab.ErrNoEligibleWords) {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		return nil, err
	}

	assignment, err := classes.Partition(selection.Counts, cfg.NbrClasses)
	if err != nil {
		return nil, err
	}

	if err := writeVocab(fops, cfg.OutputVocabFile, assignment); err != nil {
		return nil, err
	}
	log.Printf("Created vocabulary file with %d entries.", len(assignment.Words))

	if cfg.NbrClasses > 0 {
		if err := writeWord2Cls(fops, cfg.OutputWord2Cls, assignment); err != nil {
			return nil, err
		}
		log.Printf("Created word-to-class map with %d entries.", len(assignment.Words))

		if err := writeCls2Index(fops, cfg.OutputCls2Index, assignment); err != nil {
			return nil, err
		}
		log.Printf("Created class-to-index map with %d entries.", len(assignment.Boundaries))
	}

	if cfg.WriteCache {
		// the snapshot is auxiliary; a failed write never fails the build
		if err := writeCache(fops, cachePath(cfg.OutputVocabFile), assignment); err != nil {
			logger.HandleError(err)
			log.Printf(util.TerminalYellow + "Warning: model snapshot not written." + util.TerminalReset)
		}
	}

	return &Result{
		VocabSize:       selection.VocabSize,
		ClassesAssigned: len(assignment.Boundaries),
		Clamped:         selection.Clamped,
	}, nil
}

func validate(cfg Config) error {
	if cfg.VocabSize < 1 {
		return fmt.Errorf("%w: vocabSize must be at least 1, got %d", ErrConfig, cfg.VocabSize)
	}
	if cfg.NbrClasses < 0 {
		return fmt.Errorf("%w: nbrClasses must not be negative, got %d", ErrConfig, cfg.NbrClasses)
	}
	if cfg.InputFile == "" {
		return fmt.Errorf("%w: inputFile is required", ErrConfig)
	}
	if cfg.OutputVocabFile == "" {
		return fmt.Errorf("%w: outputVocabFile is required", ErrConfig)
	}
	if cfg.NbrClasses > 0 && (cfg.OutputWord2Cls == "" || cfg.OutputCls2Index == "") {
		return fmt.Errorf("%w: outputWord2Cls and outputCls2Index are required when nbrClasses > 0", ErrConfig)
	}
	if !cfg.BeginSequenceSet || !cfg.EndSequenceSet {
		return fmt.Errorf("%w: please specify parameters 'beginSequence' and 'endSequence'", ErrConfig)
	}
	return nil
}

// upToDate reports whether every expected output exists and is at least as
// new as the corpus. A missing corpus does not force a rebuild as long as the
// outputs are all present.
func upToDate(cfg Config) bool {
	done := targetCurrent(cfg.OutputVocabFile, cfg.InputFile)
	if cfg.NbrClasses > 0 {
		done = done && targetCurrent(cfg.OutputWord2Cls, cfg.InputFile)
		done = done && targetCurrent(cfg.OutputCls2Index, cfg.InputFile)
	}
	return done
}

func targetCurrent(target, source string) bool {
	tinfo, err := os.Stat(target)
	if err != nil {
		return false
	}
	sinfo, err := os.Stat(source)
	if err != nil {
		return true
	}
	return !tinfo.ModTime().Before(sinfo.ModTime())
}

func openOutput(fops FileOps, path string) (*bufio.Writer, func() error, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		exists, err := util.CheckDirIsValid(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("error checking output directory: %w", err)
		}
		if !exists {
			if err := fops.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("error creating output directory: %w", err)
			}
		}
	}
	f, err := fops.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening output file %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	closer := func() error {
		if err := w.Flush(); err != nil {
			f.Close()
			return fmt.Errorf("error writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("error closing %s: %w", path, err)
		}
		return nil
	}
	return w, closer, nil
}

// writeVocab emits one line per vocabulary entry: index, count, token and
// class id, in ascending index order.
func writeVocab(fops FileOps, path string, assignment *classes.Assignment) error {
	w, closer, err := openOutput(fops, path)
	if err != nil {
		return err
	}
	for i, word := range assignment.Words {
		fmt.Fprintf(w, "     %d\t     %s\t%s\t%d\n", i, formatCount(word.Count), word.Token, word.Class)
	}
	return closer()
}

// writeWord2Cls emits one class id per line, in vocabulary-index order.
func writeWord2Cls(fops FileOps, path string, assignment *classes.Assignment) error {
	w, closer, err := openOutput(fops, path)
	if err != nil {
		return err
	}
	for _, word := range assignment.Words {
		fmt.Fprintf(w, "%d\n", word.Class)
	}
	return closer()
}

// writeCls2Index emits the lowest vocabulary index of each class, one per
// line, in ascending class-id order.
func writeCls2Index(fops FileOps, path string, assignment *classes.Assignment) error {
	w, closer, err := openOutput(fops, path)
	if err != nil {
		return err
	}
	for _, index := range assignment.Boundaries {
		fmt.Fprintf(w, "%d\n", index)
	}
	return closer()
}

// formatCount renders a count the way the vocabulary table expects: plain
// integers for whole counts, six significant digits otherwise.
func formatCount(count float64) string {
	return strconv.FormatFloat(count, 'g', 6, 64)
}
