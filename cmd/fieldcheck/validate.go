package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/fieldcheck"
	"github.com/reoring/fieldcheck/auth"
	"github.com/reoring/fieldcheck/internal/logger"
	"github.com/reoring/fieldcheck/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|-]",
	Short: "Validate a body read from a file or stdin",
	Long:  `Prints the normalized body as JSON on success. On failure prints the formatted issues and exits 1.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaName, _ := cmd.Flags().GetString("schema")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		log := newLogger(cmd, "warn", "cli")
		return runValidate(log, schemaName, asYAML, in, cmd.OutOrStdout())
	},
}

func init() {
	validateCmd.Flags().StringP("schema", "s", "signup", "schema name")
	validateCmd.Flags().Bool("yaml", false, "read the body as YAML")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(log *logger.Logger, schemaName string, asYAML bool, in io.Reader, out io.Writer) error {
	if err := lookupSchema(schemaName); err != nil {
		return err
	}
	s, _ := auth.Lookup(schemaName)

	decode := source.JSON
	if asYAML {
		decode = source.YAML
	}
	body, err := decode(in)
	if err != nil {
		return err
	}

	res := fieldcheck.Validate(s, body)
	if !res.OK() {
		log.Debug().Str("schema", schemaName).Interface("issues", res.Issues()).Msg("rejected")
		fmt.Fprintln(out, fieldcheck.FormatValidationError(res.Source()))
		return errInvalid
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Value())
}
