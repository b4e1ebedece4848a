package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "YAML config file overlaid on the environment",
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pdfcontext",
		Usage: "turn PDF attachments into LLM-ready text and visual signals",
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "extract text and signals from PDFs",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "dir", Usage: "also collect every PDF under this directory"},
					&cli.BoolFlag{Name: "include-hidden", Usage: "descend into hidden files and directories with --dir"},
					&cli.StringFlag{Name: "attachments", Usage: "JSON file of {filename, base64_data} attachments"},
					&cli.StringFlag{Name: "legacy-text", Usage: "text placed before the documents"},
					&cli.BoolFlag{Name: "no-visual-signals", Usage: "skip annotation and style detection"},
					&cli.BoolFlag{Name: "no-ocr", Usage: "never run OCR"},
					&cli.StringFlag{Name: "json-out", Usage: "write the bundle as JSON"},
					&cli.StringFlag{Name: "xlsx-out", Usage: "write the signals as an XLSX workbook"},
					&cli.StringFlag{Name: "dump", Usage: "write the combined text to a file"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not print the signal table"},
				},
				Action: ExtractAction,
			},
			{
				Name:      "classify",
				Usage:     "report native-text quality and the OCR decision per page",
				ArgsUsage: "files...",
				Flags:     []cli.Flag{configFlag},
				Action:    ClassifyAction,
			},
			{
				Name:  "cache",
				Usage: "bundle cache maintenance",
				Subcommands: []*cli.Command{
					{
						Name:   "ping",
						Usage:  "open the configured cache and check connectivity",
						Flags:  []cli.Flag{configFlag},
						Action: CachePingAction,
					},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}
