package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llmstxt-generator/internal/cleanup"
	"github.com/dtnitsch/llmstxt-generator/internal/generate"
	"github.com/dtnitsch/llmstxt-generator/internal/preview"
	"github.com/dtnitsch/llmstxt-generator/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "llmstxt",
		Usage: "Generate llms.txt files from a short site survey",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (env vars override it)",
				EnvVars: []string{"LLMSTXT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Crawl a site and print its llms.txt",
				UsageText: "llmstxt generate --survey survey.yaml\n   llmstxt generate --name Acme --url acme.com --summary \"...\" --pages \"/pricing,/docs,/about\"",
				Flags:     generate.Flags,
				Action:    generate.GenerateAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with checkout and downloads",
				Flags:  serve.Flags,
				Action: serve.ServeAction,
			},
			{
				Name:      "preview",
				Usage:     "Show the free preview of an llms.txt file",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "visible-only", Usage: "omit the masked remainder"},
				},
				Action: preview.PreviewAction,
			},
			{
				Name:  "cleanup",
				Usage: "Delete expired runs from the database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data-dir", Usage: "directory holding the run database"},
				},
				Action: cleanup.CleanupAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
