package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"fitsmeta/pkg/fitsmeta"
)

var jsonOutput bool

var headerCmd = &cobra.Command{
	Use:   "header <file>",
	Short: "Print the primary header of a FITS file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := fitsmeta.LoadHeaderFile(args[0])
		if err != nil {
			return err
		}
		return printHeader(cmd.OutOrStdout(), h)
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <textfile>",
	Short: "Parse header cards from a text file, one card per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		h, err := fitsmeta.ParseHeader(string(data))
		if err != nil {
			return err
		}
		return printHeader(cmd.OutOrStdout(), h)
	},
}

func init() {
	for _, c := range []*cobra.Command{headerCmd, parseCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print keywords as JSON")
	}
}

type keywordJSON struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

func printHeader(w io.Writer, h *fitsmeta.Header) error {
	if !jsonOutput {
		for _, kv := range h.All() {
			fmt.Fprintf(w, "%-8s %-8s %s\n", kv.Name, kv.Kind, kv.Value())
		}
		return nil
	}

	out := make([]keywordJSON, 0, h.Len())
	for i, kv := range h.All() {
		out = append(out, keywordJSON{
			Index:   i,
			Name:    kv.Name,
			Kind:    kv.Kind.String(),
			Value:   kv.Value(),
			Comment: kv.Comment,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
