package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"opportunity/discovery-service/internal/model"
	"opportunity/discovery-service/internal/store"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run one discovery pipeline and print the result as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Usage:    "What to look for, e.g. \"AI hackathon\"",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Restrict to one opportunity type (hackathon, internship, ...)",
			},
			&cli.StringFlag{
				Name:  "year",
				Usage: "Four-digit year appended to the query",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSearch(ctx, c)
		},
	}
}

// runSearch keeps results in memory; nothing is written to a database.
func runSearch(ctx context.Context, c *cli.Command) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	typ, err := model.ParseOptionalType(c.String("type"))
	if err != nil {
		return err
	}

	svc, err := newService(cfg, log, store.NewMemory(), nil, nil)
	if err != nil {
		return err
	}

	res, err := svc.Search(ctx, model.OpportunityQuery{
		RawText:    c.String("query"),
		TypeFilter: typ,
		YearHint:   c.String("year"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
