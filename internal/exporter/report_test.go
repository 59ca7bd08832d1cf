package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsquality/internal/analysis"
)

func TestWriteReport(t *testing.T) {
	table := sampleTable()
	dist, err := analysis.AnalyzeDistribution(table, "Close")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, ReportInput{
		FileName:     "prices.csv",
		GeneratedAt:  time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Overview:     analysis.Summarize(table),
		Missing:      analysis.CheckMissing(table),
		Column:       "Close",
		Distribution: &dist,
	}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, ReportTitle+"\n"+strings.Repeat("=", len(ReportTitle))))
	assert.Contains(t, out, "Source: prices.csv")
	assert.Contains(t, out, "Generated: 2024-02-01T12:00:00Z")
	assert.Contains(t, out, "- Shape: (3, 4)")
	assert.Contains(t, out, "- Date Range: 2024-01-02 to 2024-01-04")
	assert.Contains(t, out, "- Columns: Date, Close, Volume, Note")
	assert.Contains(t, out, "- Memory Usage: 0.00 MB")
	assert.Regexp(t, `Close\s+1\s+33\.33%`, out)
	assert.Regexp(t, `Note\s+1\s+33\.33%`, out)
	assert.Contains(t, out, "Distribution Statistics for Close:")
	assert.Regexp(t, `mean\s+5\.3`, out)
	assert.Regexp(t, `skewness\s+undefined`, out, "two values are too few for skewness")
	assert.Regexp(t, `kurtosis\s+undefined`, out)
}

func TestWriteReport_Minimal(t *testing.T) {
	table := analysis.NewTable([]string{"Date", "Close"}, [][]analysis.Value{
		{analysis.Date(day(2)), analysis.Number(1)},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, ReportInput{
		Overview: analysis.Summarize(table),
		Missing:  analysis.CheckMissing(table),
	}))
	out := buf.String()

	assert.NotContains(t, out, "Source:")
	assert.Contains(t, out, "No missing values")
	assert.NotContains(t, out, "Distribution Statistics")
}
