package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"toolshed/internal/check"
	"toolshed/internal/history"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Score resume text for spelling, cliches and structure",
	Long: `Runs the rule passes over resume text and prints a scored report.
The input is a .txt or .pdf file, or stdin when no argument is given.

Examples:
  toolshed check resume.pdf
  cat resume.txt | toolshed check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit the report as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var (
		text string
		err  error
	)
	if len(args) == 1 {
		text, err = check.LoadText(args[0])
		if err != nil {
			return err
		}
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	checker, err := check.New(cfg.Checker, logger)
	if err != nil {
		return err
	}
	report := checker.Check(text)

	if store := openHistory(); store != nil {
		defer store.Close()
		subject := "stdin"
		if len(args) == 1 {
			subject = args[0]
		}
		_, _ = store.Record(history.Entry{
			Kind:    history.KindCheck,
			Subject: subject,
			Outcome: report.Grade,
			Count:   int64(len(report.Findings)),
		})
	}

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Print(report.Markdown())
	return nil
}
