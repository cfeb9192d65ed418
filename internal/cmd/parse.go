package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skein/internal/model"
	"skein/internal/parser"
)

var (
	unknownOnly    bool
	parseThreshold int
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Classify log files in one shot",
	Long: `Parse one or more files (or stdin when no file is given) and print
every entry. Lines that do not match the grammar come out as unknown
entries holding the original line.

Examples:
  skein parse app.log
  skein parse app.log server.log --output json
  skein parse app.log --unknown-only
  skein parse app.log --errors-above 2`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&unknownOnly, "unknown-only", false, "print only lines that failed to parse")
	parseCmd.Flags().IntVar(&parseThreshold, "errors-above", 0, "print only error entries with severity strictly above N")
	parseCmd.MarkFlagsMutuallyExclusive("unknown-only", "errors-above")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	// Severity-threshold mode prints the rendered error lines and nothing
	// else, matching the report shape of ErrorsAbove.
	if cmd.Flags().Changed("errors-above") {
		for _, in := range inputs {
			for _, line := range parser.ErrorsAbove(in.content, parseThreshold) {
				fmt.Fprintln(os.Stdout, line)
			}
		}
		return nil
	}

	renderer := newRenderer()
	for _, in := range inputs {
		msgs := parser.ParseFile(in.content)
		if unknownOnly {
			msgs = parser.FilterUnknown(msgs)
		}
		for _, m := range msgs {
			if err := renderer.Render(model.Entry{Source: in.source, Message: m}); err != nil {
				log.Printf("render error: %v", err)
			}
		}
	}
	return nil
}

type input struct {
	source  string
	content string
}

// collectInputs reads the named files, or stdin when none are given. The
// source name is empty for stdin so renderers omit the source column.
func collectInputs(args []string) ([]input, error) {
	if len(args) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []input{{source: "", content: chomp(raw)}}, nil
	}

	inputs := make([]input, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, input{source: path, content: chomp(raw)})
	}
	return inputs, nil
}

// chomp strips the final newline a well-formed text file ends with, so it
// does not show up as one extra empty unknown entry.
func chomp(raw []byte) string {
	return strings.TrimSuffix(string(raw), "\n")
}
