// Package corpus reads tab-separated pronunciation data into per-language
// phoneme sequences.
package corpus

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Record layout: language id in the first field, transcription in the fourth
const (
	langField          = 0
	transcriptionField = 3
	minFields          = 4
)

// Defaults applied by NewReader
const (
	DefaultStartMarker = "#"
	DefaultEndMarker   = "@"
	DefaultMinLength   = 4
)

// Options configures how transcriptions become sequences
type Options struct {
	StartMarker string
	EndMarker   string
	MinLength   int // bracketed sequences shorter than this are dropped
}

// Reader loads a pronunciation corpus
type Reader struct {
	opts   Options
	logger *zap.Logger
}

// NewReader creates a reader; zero option fields take the defaults
func NewReader(opts Options, logger *zap.Logger) *Reader {
	if opts.StartMarker == "" {
		opts.StartMarker = DefaultStartMarker
	}
	if opts.EndMarker == "" {
		opts.EndMarker = DefaultEndMarker
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{opts: opts, logger: logger}
}

// Options returns the effective options
func (r *Reader) Options() Options {
	return r.opts
}

// ReadFile loads every record of the given languages from path.
// An empty language list keeps all languages.
func (r *Reader) ReadFile(path string, languages []string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	ds, err := r.Read(f, languages)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return ds, nil
}

// Read loads every record of the given languages from src
func (r *Reader) Read(src io.Reader, languages []string) (Dataset, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		wanted[lang] = struct{}{}
	}

	ds := make(Dataset)
	var skipped, short int
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			r.logger.Warn("skipping malformed record",
				zap.Int("line", i+1),
				zap.Int("fields", len(fields)))
			skipped++
			continue
		}

		lang := fields[langField]
		if len(wanted) > 0 {
			if _, ok := wanted[lang]; !ok {
				continue
			}
		}

		seq := r.Bracket(fields[transcriptionField])
		if len(seq) < r.opts.MinLength {
			short++
			continue
		}
		ds[lang] = append(ds[lang], seq)
	}

	r.logger.Debug("corpus loaded",
		zap.Int("languages", len(ds)),
		zap.Int("malformed", skipped),
		zap.Int("too_short", short))

	return ds, nil
}

// Bracket wraps a whitespace-separated transcription in start and end markers
// and tokenizes it.
func (r *Reader) Bracket(transcription string) []string {
	return strings.Fields(r.opts.StartMarker + " " + transcription + " " + r.opts.EndMarker)
}
