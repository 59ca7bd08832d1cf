package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tsquality/internal/analysis"
	"tsquality/internal/infrastructure"
	"tsquality/pkg/contracts"
)

func newValidateCmd(e *env) *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a price file has a usable structure",
		Long: `Validate parses the file and checks that it is non-empty, has a Date
column with parseable dates and at least one numeric column. It exits
non-zero when the table is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.service()
			if err != nil {
				return err
			}
			ctx := infrastructure.EnsureTraceID(cmd.Context())
			raw, err := svc.LoadFile(ctx, file)
			if err != nil {
				return err
			}

			result, err := svc.Validate(ctx, raw)
			if asJSON {
				if encErr := json.NewEncoder(e.out).Encode(result); encErr != nil {
					return encErr
				}
			} else {
				fmt.Fprintln(e.out, result.Message)
			}

			var structural *analysis.StructuralError
			if errors.As(err, &structural) {
				return fmt.Errorf("invalid table (%s)", structural.Reason)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input file (.csv, .txt or .xlsx)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(e.out, contracts.GetFullVersionString())
		},
	}
}
