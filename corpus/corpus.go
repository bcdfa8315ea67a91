package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/tebeka/snowball"

	"wordclass/logger"
)

// TermFreq maps a token string to its accumulated frequency in the corpus.
type TermFreq map[string]float64

// Options controls how corpus lines are normalized and tokenized.
type Options struct {
	// BeginSequence is prepended (with a trailing space) to every line that
	// does not already start with it. Empty disables insertion.
	BeginSequence string
	// EndSequence is appended (with a leading space) to every line that does
	// not already end with it. Empty disables insertion.
	EndSequence string
	// StemLanguage enables snowball stemming of counted tokens when non-empty,
	// e.g. "english". Sentinel tokens are never stemmed.
	StemLanguage string
	// HTML strips markup from the input and tokenizes the text content.
	HTML bool
}

// CountFile reads the corpus at path and accumulates token frequencies.
// Files ending in .html or .htm are stripped of markup first.
func CountFile(path string, opts Options) (TermFreq, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening corpus file: %w", err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".html", ".htm":
		opts.HTML = true
	}
	return Count(f, opts)
}

// Count accumulates token frequencies over all lines read from r.
//
// Each line is trimmed of outer spaces, skipped if empty, completed with the
// configured sentinel markers and split on spaces and tabs. When a begin
// sentinel is configured it occupies the first field of every line and that
// field is not counted.
func Count(r io.Reader, opts Options) (TermFreq, error) {
	if opts.HTML {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("error reading html corpus: %w", err)
		}
		r = strings.NewReader(ExtractHTMLText(string(raw)))
	}

	var stemmer *snowball.Stemmer
	if opts.StemLanguage != "" {
		s, err := snowball.New(opts.StemLanguage)
		if err != nil {
			return nil, fmt.Errorf("error creating stemmer: %w", err)
		}
		stemmer = s
		defer stemmer.Close()
	}

	tf := make(TermFreq)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := NormalizeLine(scanner.Text(), opts.BeginSequence, opts.EndSequence)
		if line == "" {
			continue
		}
		fields := splitTokens(line)
		start := 0
		if opts.BeginSequence != "" {
			// the begin marker holds field 0 and never counts itself
			start = 1
		}
		for _, token := range fields[start:] {
			if stemmer != nil && token != opts.BeginSequence && token != opts.EndSequence {
				token = stemmer.Stem(strings.ToLower(token))
			}
			tf[token]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading corpus: %w", err)
	}
	logger.HandleLog(fmt.Sprintf("counted %d distinct tokens", len(tf)))
	return tf, nil
}

// NormalizeLine trims outer spaces and inserts the sentinel markers when they
// are configured and absent. An empty result means the line carried no tokens.
func NormalizeLine(line, begin, end string) string {
	line = strings.Trim(line, " ")
	if line == "" {
		return ""
	}
	if begin != "" && !strings.HasPrefix(line, begin+" ") {
		line = begin + " " + line
	}
	if end != "" && !strings.HasSuffix(line, " "+end) {
		line = line + " " + end
	}
	return line
}

func splitTokens(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}

// ExtractHTMLText parses an html string and returns all text content in the document
func ExtractHTMLText(htmlContent string) string {
	var content string

	d := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		tt := d.Next()
		switch tt {
		case html.ErrorToken:
			return content
		case html.TextToken:
			content += string(d.Text())
		}
	}
}
