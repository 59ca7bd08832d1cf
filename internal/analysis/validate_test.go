package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		table      *Table
		wantReason Reason
		wantMsg    string
	}{
		{
			name: "valid table",
			table: tableOf(t, []string{"Date", "Close"},
				[]any{"2024-01-02", 10.0},
				[]any{"2024-01-01", 11.0},
			),
			wantMsg: "Data validation successful",
		},
		{
			name:       "no rows",
			table:      NewTable([]string{"Date", "Close"}, nil),
			wantReason: ReasonEmpty,
			wantMsg:    "The uploaded file is empty",
		},
		{
			name:       "no columns",
			table:      NewTable(nil, [][]Value{{}}),
			wantReason: ReasonEmpty,
			wantMsg:    "The uploaded file is empty",
		},
		{
			name: "missing Date column",
			table: tableOf(t, []string{"date", "Close"},
				[]any{"2024-01-01", 10.0},
			),
			wantReason: ReasonMissingDate,
			wantMsg:    "The file must contain a 'Date' column",
		},
		{
			name: "unparseable date",
			table: tableOf(t, []string{"Date", "Close"},
				[]any{"2024-01-01", 10.0},
				[]any{"not a date", 11.0},
			),
			wantReason: ReasonInvalidDate,
			wantMsg:    "The 'Date' column contains invalid date formats",
		},
		{
			name: "missing date value",
			table: tableOf(t, []string{"Date", "Close"},
				[]any{"2024-01-01", 10.0},
				[]any{nil, 11.0},
			),
			wantReason: ReasonInvalidDate,
			wantMsg:    "The 'Date' column contains invalid date formats",
		},
		{
			name: "no numeric column",
			table: tableOf(t, []string{"Date", "Ticker"},
				[]any{"2024-01-01", "BMFI"},
			),
			wantReason: ReasonNoNumeric,
			wantMsg:    "The file must contain at least one numeric column",
		},
		{
			name: "mixed text and numbers is not numeric",
			table: tableOf(t, []string{"Date", "Close"},
				[]any{"2024-01-01", 10.0},
				[]any{"2024-01-02", "n/a"},
			),
			wantReason: ReasonNoNumeric,
			wantMsg:    "The file must contain at least one numeric column",
		},
		{
			name: "compact numeric dates",
			table: tableOf(t, []string{"Date", "Close"},
				[]any{20240101.0, 10.0},
				[]any{20240102.0, 11.0},
			),
			wantMsg: "Data validation successful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.table)
			assert.Equal(t, tt.wantMsg, ValidationMessage(err))

			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			var se *StructuralError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantReason, se.Reason)
		})
	}
}

func TestValidate_RemovingDateFlipsResult(t *testing.T) {
	table := tableOf(t, []string{"Date", "Close"},
		[]any{"2024-01-01", 1.0},
		[]any{"2024-01-02", 2.0},
	)
	require.NoError(t, Validate(table))

	table.Columns[0] = "Day"
	err := Validate(table)
	require.Error(t, err)
	assert.Equal(t, "The file must contain a 'Date' column", err.Error())
}

func TestValidate_DoesNotMutate(t *testing.T) {
	table := tableOf(t, []string{"Date", "Close"},
		[]any{"2024-01-02", 1.0},
		[]any{"2024-01-01", 2.0},
	)
	before := table.Clone()

	require.NoError(t, Validate(table))
	assert.Equal(t, before, table)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-05", want: "2024-03-05"},
		{in: " 2024-03-05 ", want: "2024-03-05"},
		{in: "2024-03-05 14:30:00", want: "2024-03-05"},
		{in: "2024-03-05T14:30:00Z", want: "2024-03-05"},
		{in: "2024/03/05", want: "2024-03-05"},
		{in: "03/05/2024", want: "2024-03-05"},
		{in: "05-Mar-2024", want: "2024-03-05"},
		{in: "Mar 5, 2024", want: "2024-03-05"},
		{in: "20240305", want: "2024-03-05"},
		{in: "", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "2024-13-45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}
