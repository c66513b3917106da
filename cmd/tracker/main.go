package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/version"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "tracker",
		Usage:   "Simulate an RSI / moving average trading strategy on live or synthetic prices",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a simulation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the tracker `FILE`",
						Value:   "config/tracker.yaml",
					},
					&cli.BoolFlag{
						Name:  "headless",
						Usage: "Disable the dashboard and print progress instead",
					},
					&cli.IntFlag{
						Name:  "max-ticks",
						Usage: "Override the tick budget (0 runs until interrupted)",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Override the output `DIR` for run folders",
					},
					&cli.StringFlag{
						Name:  "status-addr",
						Usage: "Serve the status API on `ADDR`",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the config file",
				Action: func(_ context.Context, cmd *cli.Command) error {
					schema, err := config.GenerateSchemaJSON()
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(cmd.Root().Writer, schema)

					return err
				},
			},
			{
				Name:  "version",
				Usage: "Print the tracker version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, version.GetVersion())

					return err
				},
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
