package similarity

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		ID:        "01HX0000000000000000000000",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Estimator: "absdisc",
		Discount:  0.5,
		Unknown:   true,
		Rows: []Row{
			{Train: "rus", Test: "rus", Surprisal: 3.014, Perplexity: 8.08, Bigrams: 10},
			{Train: "rus", Test: "ukr", Surprisal: 3.456, Perplexity: 10.97, Bigrams: 12, OOV: 1},
			{Train: "bul", Test: "rus", Surprisal: 3.5, Perplexity: 11.3, Bigrams: 10},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteTable(&buf))

	want := " TRAIN  >  TEST  : Avg. Surprisal\n" +
		"  RUS   >   RUS  :           3.01\n" +
		"  RUS   >   UKR  :           3.46\n" +
		"\n" +
		"  BUL   >   RUS  :           3.50\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Report{}).WriteTable(&buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "absdisc", decoded.Estimator)
	assert.Len(t, decoded.Rows, 3)
	assert.Contains(t, buf.String(), `"surprisal": 3.456`)
}

func TestReportRun(t *testing.T) {
	report := sampleReport()
	run := report.Run()

	assert.Equal(t, report.ID, run.ID)
	assert.Equal(t, 0.5, run.Discount)
	assert.True(t, run.Unknown)
	require.Len(t, run.Rows, 3)
	assert.Equal(t, "ukr", run.Rows[1].Test)
	assert.Equal(t, 1, run.Rows[1].OOV)
}

func TestLookup(t *testing.T) {
	report := sampleReport()

	row, ok := report.Lookup("bul", "rus")
	assert.True(t, ok)
	assert.Equal(t, 3.5, row.Surprisal)

	_, ok = report.Lookup("bul", "zho")
	assert.False(t, ok)
}

func TestCenter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RUS", "  RUS  "},
		{"TEST", " TEST  "},
		{"TRAIN", " TRAIN "},
		{"TOOLONGX", "TOOLONGX"},
		{"ĆŚ", "  ĆŚ   "},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, center(tt.in, 7), tt.in)
	}
}
