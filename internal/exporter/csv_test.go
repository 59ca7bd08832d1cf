package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsquality/internal/analysis"
	"tsquality/internal/config"
	"tsquality/internal/dataprocessing"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable() *analysis.Table {
	return analysis.NewTable(
		[]string{"Date", "Close", "Volume", "Note"},
		[][]analysis.Value{
			{analysis.Date(day(2)), analysis.Number(10.5), analysis.Number(1000), analysis.Text("open, late")},
			{analysis.Date(day(3)), analysis.Null(), analysis.Number(1200), analysis.Null()},
			{analysis.Date(day(4)), analysis.Number(0.1), analysis.Number(900), analysis.Text("x")},
		},
	)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, sampleTable(), CSVOptions{}))

	want := "Date,Close,Volume,Note\n" +
		"2024-01-02,10.5,1000,\"open, late\"\n" +
		"2024-01-03,,1200,\n" +
		"2024-01-04,0.1,900,x\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTableCSV_Options(t *testing.T) {
	tests := []struct {
		name      string
		table     *analysis.Table
		opts      CSVOptions
		wantStart string
		contains  string
	}{
		{
			name:      "bom prefix",
			table:     sampleTable(),
			opts:      CSVOptions{BOM: true},
			wantStart: "\xEF\xBB\xBFDate,",
		},
		{
			name: "intraday dates keep the time",
			table: analysis.NewTable([]string{"Date", "Close"}, [][]analysis.Value{
				{analysis.Date(day(2)), analysis.Number(1)},
				{analysis.Date(day(2).Add(90 * time.Minute)), analysis.Number(2)},
			}),
			wantStart: "Date,Close\n2024-01-02 00:00:00,1\n",
			contains:  "2024-01-02 01:30:00,2",
		},
		{
			name:      "empty table writes the header",
			table:     analysis.NewTable([]string{"Date", "Close"}, nil),
			wantStart: "Date,Close\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTableCSV(&buf, tt.table, tt.opts))
			assert.True(t, strings.HasPrefix(buf.String(), tt.wantStart), buf.String())
			if tt.contains != "" {
				assert.Contains(t, buf.String(), tt.contains)
			}
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "daily rows out of order",
			raw: "Date,Close,Volume,Note\n" +
				"2024-01-04,0.1,900,x\n" +
				"2024-01-02,10.5,1000,\"open, late\"\n" +
				"2024-01-03,,1200,\n",
		},
		{
			name: "mixed utc offsets",
			raw: "Date,Close\n" +
				"2024-01-01T10:00:00+05:00,1\n" +
				"2024-01-01T06:00:00Z,2\n" +
				"2024-01-01T01:30:00-03:00,3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := dataprocessing.ParseCSV(strings.NewReader(tt.raw))
			require.NoError(t, err)
			require.NoError(t, analysis.Validate(parsed))
			canonical, err := analysis.Preprocess(parsed)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WriteTableCSV(&buf, canonical, CSVOptions{BOM: true}))

			reread, err := dataprocessing.ParseCSV(&buf)
			require.NoError(t, err)
			require.NoError(t, analysis.Validate(reread))
			again, err := analysis.Preprocess(reread)
			require.NoError(t, err)

			assert.Equal(t, canonical.Columns, again.Columns)
			require.Equal(t, canonical.Len(), again.Len())
			for i := range canonical.Rows {
				for c := range canonical.Columns {
					assert.True(t, canonical.Cell(i, c).Equal(again.Cell(i, c)),
						"row %d column %s: %v != %v", i, canonical.Columns[c], canonical.Cell(i, c), again.Cell(i, c))
				}
			}
		})
	}
}

func TestWriteTableCSV_OffsetDatesWrittenInUTC(t *testing.T) {
	parsed, err := dataprocessing.ParseCSV(strings.NewReader(
		"Date,Close\n2024-01-01T10:00:00+05:00,1\n2024-01-01T06:00:00Z,2\n"))
	require.NoError(t, err)
	canonical, err := analysis.Preprocess(parsed)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, canonical, CSVOptions{}))
	assert.Equal(t, "Date,Close\n2024-01-01 05:00:00,1\n2024-01-01 06:00:00,2\n", buf.String())
}

func TestCSVWriter_WriteTableFile(t *testing.T) {
	tempDir := t.TempDir()
	paths := &config.Paths{ExportsDir: filepath.Join(tempDir, "exports")}
	writer := NewCSVWriter(paths)
	assert.Equal(t, paths, writer.paths)

	t.Run("relative path lands in exports", func(t *testing.T) {
		got, err := writer.WriteTableFile("processed_data.csv", sampleTable(), CSVOptions{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tempDir, "exports", "processed_data.csv"), got)

		content, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "Date,Close,Volume,Note\n"))
	})

	t.Run("absolute path is kept", func(t *testing.T) {
		target := filepath.Join(tempDir, "elsewhere", "out.csv")
		got, err := writer.WriteTableFile(target, sampleTable(), CSVOptions{BOM: true})
		require.NoError(t, err)
		assert.Equal(t, target, got)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, utf8BOM, content[:3])
	})
}
