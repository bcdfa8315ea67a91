package builder

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordclass/vocab"
)

func testConfig(dir string) Config {
	return Config{
		VocabSize:        3,
		NbrClasses:       2,
		Cutoff:           0,
		InputFile:        filepath.Join(dir, "corpus.txt"),
		OutputVocabFile:  filepath.Join(dir, "vocab.txt"),
		OutputWord2Cls:   filepath.Join(dir, "word2cls.txt"),
		OutputCls2Index:  filepath.Join(dir, "cls2idx.txt"),
		UnkToken:         "<unk>",
		BeginSequenceSet: true,
		EndSequenceSet:   true,
	}
}

func writeCorpus(t *testing.T, cfg Config) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.InputFile, []byte("a a a b b c\n"), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunWritesArtifacts(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeCorpus(t, cfg)

	result, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)

	assert.False(t, result.UpToDate)
	assert.Equal(t, 3, result.VocabSize)
	assert.Equal(t, 2, result.ClassesAssigned)
	assert.False(t, result.Clamped)

	expectedVocab := "     0\t     3\ta\t0\n" +
		"     1\t     2\tb\t1\n" +
		"     2\t     1\t<unk>\t1\n"
	assert.Equal(t, expectedVocab, readFile(t, cfg.OutputVocabFile))
	assert.Equal(t, "0\n1\n1\n", readFile(t, cfg.OutputWord2Cls))
	assert.Equal(t, "0\n1\n", readFile(t, cfg.OutputCls2Index))
}

func TestRunVocabularyOnly(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.NbrClasses = 0
	cfg.OutputWord2Cls = ""
	cfg.OutputCls2Index = ""
	writeCorpus(t, cfg)

	result, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ClassesAssigned)

	expectedVocab := "     0\t     3\ta\t0\n" +
		"     1\t     2\tb\t0\n" +
		"     2\t     1\t<unk>\t0\n"
	assert.Equal(t, expectedVocab, readFile(t, cfg.OutputVocabFile))

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg.OutputVocabFile), "word2cls.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMakeModeShortCircuit(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MakeMode = true
	writeCorpus(t, cfg)

	// corpus predates the artifacts the first run is about to write
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cfg.InputFile, past, past))

	first, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	require.False(t, first.UpToDate)

	vocabBytes := readFile(t, cfg.OutputVocabFile)
	word2clsBytes := readFile(t, cfg.OutputWord2Cls)
	cls2idxBytes := readFile(t, cfg.OutputCls2Index)

	second, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	assert.True(t, second.UpToDate)

	assert.Equal(t, vocabBytes, readFile(t, cfg.OutputVocabFile))
	assert.Equal(t, word2clsBytes, readFile(t, cfg.OutputWord2Cls))
	assert.Equal(t, cls2idxBytes, readFile(t, cfg.OutputCls2Index))
}

func TestRunMakeModeMissingOutputRebuilds(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MakeMode = true
	writeCorpus(t, cfg)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cfg.InputFile, past, past))

	vocabOnly := cfg
	vocabOnly.NbrClasses = 0
	vocabOnly.OutputWord2Cls = ""
	vocabOnly.OutputCls2Index = ""
	_, err := Run(vocabOnly, FileOpsImpl{})
	require.NoError(t, err)

	// the vocabulary table is current but the class maps are missing, so a
	// class-enabled run must not report up to date
	result, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.FileExists(t, cfg.OutputWord2Cls)
	assert.FileExists(t, cfg.OutputCls2Index)
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeCorpus(t, cfg)

	_, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	firstVocab := readFile(t, cfg.OutputVocabFile)
	firstWord2Cls := readFile(t, cfg.OutputWord2Cls)
	firstCls2Idx := readFile(t, cfg.OutputCls2Index)

	_, err = Run(cfg, FileOpsImpl{})
	require.NoError(t, err)

	assert.Equal(t, firstVocab, readFile(t, cfg.OutputVocabFile))
	assert.Equal(t, firstWord2Cls, readFile(t, cfg.OutputWord2Cls))
	assert.Equal(t, firstCls2Idx, readFile(t, cfg.OutputCls2Index))
}

func TestRunClampsOversizedVocabulary(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.VocabSize = 10
	writeCorpus(t, cfg)

	result, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	assert.True(t, result.Clamped)
	assert.Equal(t, 3, result.VocabSize)
}

func TestRunCreatesIntermediateDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.OutputVocabFile = filepath.Join(dir, "out", "nested", "vocab.txt")
	cfg.OutputWord2Cls = filepath.Join(dir, "out", "nested", "word2cls.txt")
	cfg.OutputCls2Index = filepath.Join(dir, "out", "nested", "cls2idx.txt")
	writeCorpus(t, cfg)

	_, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)
	assert.FileExists(t, cfg.OutputVocabFile)
}

func TestRunCacheRoundTrip(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.WriteCache = true
	writeCorpus(t, cfg)

	_, err := Run(cfg, FileOpsImpl{})
	require.NoError(t, err)

	assignment, err := ReadCache(cachePath(cfg.OutputVocabFile))
	require.NoError(t, err)
	require.Len(t, assignment.Words, 3)
	assert.Equal(t, "a", assignment.Words[0].Token)
	assert.Equal(t, []int{0, 1}, assignment.Boundaries)
}

func TestRunMissingCorpus(t *testing.T) {
	cfg := testConfig(t.TempDir())

	_, err := Run(cfg, FileOpsImpl{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfig)
}

func TestRunCutoffEliminatesVocabulary(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Cutoff = 5
	writeCorpus(t, cfg)

	// every count falls at or below the cutoff: a contradiction between
	// configuration and corpus, surfaced as a configuration error
	_, err := Run(cfg, FileOpsImpl{})
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, vocab.ErrNoEligibleWords)

	_, statErr := os.Stat(cfg.OutputVocabFile)
	assert.True(t, os.IsNotExist(statErr))
}

type snapshotFailFileOps struct {
	FileOpsImpl
}

func (f snapshotFailFileOps) Create(name string) (io.WriteCloser, error) {
	if strings.HasSuffix(name, ".gz") {
		return nil, errors.New("disk full")
	}
	return f.FileOpsImpl.Create(name)
}

func TestRunCacheFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.WriteCache = true
	writeCorpus(t, cfg)

	result, err := Run(cfg, snapshotFailFileOps{})
	require.NoError(t, err)
	assert.False(t, result.UpToDate)

	assert.FileExists(t, cfg.OutputVocabFile)
	assert.FileExists(t, cfg.OutputWord2Cls)
	assert.FileExists(t, cfg.OutputCls2Index)
	_, statErr := os.Stat(cachePath(cfg.OutputVocabFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunConfigValidation(t *testing.T) {
	base := testConfig(t.TempDir())
	writeCorpus(t, base)

	testCases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"zero vocab size", func(cfg *Config) { cfg.VocabSize = 0 }},
		{"negative classes", func(cfg *Config) { cfg.NbrClasses = -1 }},
		{"missing input", func(cfg *Config) { cfg.InputFile = "" }},
		{"missing vocab output", func(cfg *Config) { cfg.OutputVocabFile = "" }},
		{"missing word2cls output", func(cfg *Config) { cfg.OutputWord2Cls = "" }},
		{"missing cls2index output", func(cfg *Config) { cfg.OutputCls2Index = "" }},
		{"unset begin sequence", func(cfg *Config) { cfg.BeginSequenceSet = false }},
		{"unset end sequence", func(cfg *Config) { cfg.EndSequenceSet = false }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			_, err := Run(cfg, FileOpsNoOp{})
			assert.ErrorIs(t, err, ErrConfig)

			// fatal config errors must leave no artifacts behind
			_, statErr := os.Stat(base.OutputVocabFile)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
