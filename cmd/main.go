// discovery-service: opportunity discovery and relevance pipeline.
//
// Finds student opportunities (hackathons, internships, fellowships,
// scholarships, competitions) through a web search provider, extracts
// structured fields, scores and filters them, and stores the survivors.
//
//	discovery serve     HTTP API, gRPC health, metrics and seed refresh
//	discovery search    one pipeline run printed as JSON
//	discovery suggest   personalised queries for a profile
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "discovery",
		Usage: "Discover, score and store student opportunities",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Env files loaded before reading configuration; missing files are skipped",
				Value: []string{".env.local", ".env"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			suggestCommand(),
			versionCommand(),
		},
	}
}
