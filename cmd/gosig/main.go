// The gosig command works with textual type signatures and YAML contract
// files: it canonicalizes signature expressions, checks JSON values against
// them, and lints contract files without loading any Go code.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	gosig "github.com/reoring/gosig"
	"github.com/reoring/gosig/sigexpr"
	"github.com/reoring/gosig/sigfile"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "gosig",
	Short:         "Work with gosig type signatures.",
	Long:          "Parse, canonicalize and check gosig type signature expressions, and lint YAML contract files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe EXPR",
	Short: "Parse a signature expression and print its canonical form.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sigexpr.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), gosig.Describe(s))
		return nil
	},
}

var errMismatch = errors.New("value does not match signature")

var checkCmd = &cobra.Command{
	Use:   "check EXPR [JSON]",
	Short: "Check a JSON value against a signature expression.",
	Long: "Check a JSON value against a signature expression. The value is read\n" +
		"from the argument, or from stdin when omitted. Exits 1 on mismatch.",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sigexpr.Parse(args[0])
		if err != nil {
			return err
		}
		var raw []byte
		if len(args) == 2 {
			raw = []byte(args[1])
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}
		v, err := decodeJSON(raw)
		if err != nil {
			return fmt.Errorf("bad JSON value: %w", err)
		}
		if !gosig.Matches(v, s) {
			fmt.Fprintf(cmd.OutOrStdout(), "MISMATCH: %s does not match %s\n",
				bytes.TrimSpace(raw), gosig.Describe(s))
			return errMismatch
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint FILE",
	Short: "Load a YAML contract file and report definition errors.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		f, err := sigfile.Load(data)
		if err != nil {
			return err
		}
		for _, name := range f.SchemaNames() {
			s, _ := f.Schema(name)
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s = %s\n", name, gosig.Describe(s))
		}
		for _, name := range f.ContractNames() {
			c, _ := f.Contract(name)
			fmt.Fprintf(cmd.OutOrStdout(), "contract %s (%d params)\n", name, len(c.Params))
		}
		return nil
	},
}

// decodeJSON parses raw with numbers kept exact, then normalizes them the way
// signature matching expects: integral numbers become int, the rest float64.
func decodeJSON(raw []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case gojson.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalize(t[k])
		}
		return t
	}
	return v
}

func main() {
	rootCmd.AddCommand(describeCmd, checkCmd, lintCmd)
	if err := rootCmd.Execute(); err != nil {
		code := 1
		if _, ok := gosig.AsDefinition(err); ok {
			code = 2
		}
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "gosig:", err)
		}
		os.Exit(code)
	}
}
