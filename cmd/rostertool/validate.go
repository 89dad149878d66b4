package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/Clark-Hu/gradeboard/internal/grades"
	"github.com/Clark-Hu/gradeboard/internal/roster"
)

func cmdValidate() *cli.Command {
	var path string

	return &cli.Command{
		Name:  "validate",
		Usage: "Parse a store file and print its grade distribution",
		Flags: []cli.Flag{fileFlag(&path)},
		Action: func(ctx context.Context, c *cli.Command) error {
			doc, err := roster.NewFileSource(path).Load(ctx)
			if err != nil {
				return err
			}
			return writeSummary(c.Root().Writer, path, grades.Aggregate(doc.Students))
		},
	}
}

func writeSummary(w io.Writer, path string, res grades.Result) error {
	if _, err := fmt.Fprintf(w, "%s: %d graded, %d ungraded\n", path, res.Graded, res.Ungraded); err != nil {
		return err
	}
	for _, b := range grades.Buckets() {
		if _, err := fmt.Fprintf(w, "  %-6s %d\n", b.Label(), res.Count(b)); err != nil {
			return err
		}
	}
	for _, course := range res.Courses {
		if _, err := fmt.Fprintf(w, "  UV %s: %d score(s)\n", course.Code, len(course.Scores)); err != nil {
			return err
		}
	}
	return nil
}
