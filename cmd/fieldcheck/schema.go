package main

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/fieldcheck/auth"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <name>",
	Short: "Print the JSON Schema of a registered schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(name string, out io.Writer) error {
	if err := lookupSchema(name); err != nil {
		return err
	}
	s, _ := auth.Lookup(name)
	doc := s.JSONSchema()
	doc.Title = name

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(b, '\n'))
	return err
}
