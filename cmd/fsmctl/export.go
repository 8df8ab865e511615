package main

import (
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "definition file (yaml or json)")
	format := fs.String("format", "dot", "output format: dot, mermaid or yaml")
	current := fs.String("current", "", "state to highlight")
	direction := fs.String("direction", string(statemachine.LeftToRight), "layout direction: LR or TB")
	if err := fs.Parse(args); err != nil {
		return err
	}

	def, g, err := loadGraph(*file)
	if err != nil {
		return err
	}

	opts := []statemachine.ExportOption{
		statemachine.WithGraphName(def.Name),
		statemachine.WithDirection(statemachine.Direction(*direction)),
	}
	if *current != "" {
		if !slices.Contains(g.States(), *current) {
			return fmt.Errorf("state %q is not part of the graph", *current)
		}
		opts = append(opts, statemachine.WithCurrent(*current))
	}

	switch *format {
	case "dot":
		_, err = io.WriteString(stdout, statemachine.DOT(g, opts...))
	case "mermaid":
		_, err = io.WriteString(stdout, statemachine.Mermaid(g, opts...))
	case "yaml":
		err = statemachine.DefinitionOf(def.Name, def.Initial, g).Encode(stdout)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	return err
}
