package similarity

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cognicore/phonosim/pkg/phonosim/lm"
	"github.com/cognicore/phonosim/pkg/phonosim/store"
)

// Report holds the outcome of one similarity run
type Report struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Estimator string                   `json:"estimator"`
	Discount  float64                  `json:"discount,omitempty"`
	AdditiveK float64                  `json:"additive_k,omitempty"`
	Unknown   bool                     `json:"unknown"`
	Models    map[string]lm.ModelStats `json:"models"`
	Rows      []Row                    `json:"rows"`
	Skipped   []Pair                   `json:"skipped,omitempty"`
}

// Row is the evaluation of one training language on one test language
type Row struct {
	Train      string  `json:"train"`
	Test       string  `json:"test"`
	Surprisal  float64 `json:"surprisal"`
	Perplexity float64 `json:"perplexity"`
	Bigrams    int     `json:"bigrams"`
	OOV        int     `json:"oov"`
}

// Pair names a (train, test) combination
type Pair struct {
	Train string `json:"train"`
	Test  string `json:"test"`
}

const langWidth = 7

// WriteTable prints the classic surprisal table, one block per training language
func (r *Report) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s > %s: %12s\n",
		center("TRAIN", langWidth), center("TEST", langWidth), "Avg. Surprisal"); err != nil {
		return err
	}

	for i, row := range r.Rows {
		if _, err := fmt.Fprintf(w, "%s > %s: %14.2f\n",
			center(strings.ToUpper(row.Train), langWidth),
			center(strings.ToUpper(row.Test), langWidth),
			row.Surprisal); err != nil {
			return err
		}

		last := i == len(r.Rows)-1
		if last || r.Rows[i+1].Train != row.Train {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON prints the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// Run converts the report into its stored form
func (r *Report) Run() store.Run {
	run := store.Run{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Estimator: r.Estimator,
		Discount:  r.Discount,
		AdditiveK: r.AdditiveK,
		Unknown:   r.Unknown,
		Rows:      make([]store.Row, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		run.Rows = append(run.Rows, store.Row{
			Train:      row.Train,
			Test:       row.Test,
			Surprisal:  row.Surprisal,
			Perplexity: row.Perplexity,
			Bigrams:    row.Bigrams,
			OOV:        row.OOV,
		})
	}
	return run
}

// Lookup returns the row for a language pair
func (r *Report) Lookup(train, test string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Train == train && row.Test == test {
			return row, true
		}
	}
	return Row{}, false
}

// center pads s to width, extra space on the right
func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
