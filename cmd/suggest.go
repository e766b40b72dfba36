package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"opportunity/discovery-service/internal/api"
	"opportunity/discovery-service/internal/discovery"
	"opportunity/discovery-service/internal/query"
)

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Print personalised search queries for a student profile",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "skills", Usage: "Skills, e.g. --skills react,docker"},
			&cli.StringSliceFlag{Name: "interests", Usage: "Interests"},
			&cli.StringFlag{Name: "major", Usage: "Field of study"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc := discovery.NewService(discovery.Deps{}, discovery.Options{})
			for _, q := range svc.Suggestions(query.Profile{
				Skills:    c.StringSlice("skills"),
				Interests: c.StringSlice("interests"),
				Major:     c.String("major"),
			}) {
				fmt.Fprintln(c.Root().Writer, q)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Fprintf(c.Root().Writer, "discovery-service %s\n", api.Version)
			return nil
		},
	}
}
