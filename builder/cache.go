package builder

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"wordclass/classes"
)

// cachePath is where the optional model snapshot lives, next to the
// vocabulary table.
func cachePath(outputVocabFile string) string {
	return outputVocabFile + ".gz"
}

// writeCache persists the built model as a gzip-compressed gob snapshot so
// downstream tools can reload it without re-parsing the text artifacts.
func writeCache(fops FileOps, path string, assignment *classes.Assignment) error {
	var compressedData bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressedData)

	encoder := gob.NewEncoder(gzipWriter)
	if err := encoder.Encode(assignment); err != nil {
		return fmt.Errorf("error encoding model snapshot: %v", err)
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("error closing gzip writer: %v", err)
	}

	f, err := fops.Create(path)
	if err != nil {
		return fmt.Errorf("error writing model snapshot to disk: %v", err)
	}
	if _, err := f.Write(compressedData.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("error writing model snapshot to disk: %v", err)
	}
	return f.Close()
}

// ReadCache loads a model snapshot written by a previous run.
func ReadCache(path string) (*classes.Assignment, error) {
	compressedData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model snapshot: %v", err)
	}

	gzipReader, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, fmt.Errorf("error decompressing model snapshot: %v", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var assignment classes.Assignment
	if err := decoder.Decode(&assignment); err != nil {
		return nil, fmt.Errorf("error decoding model snapshot: %v", err)
	}
	return &assignment, nil
}
