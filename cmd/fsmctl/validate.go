package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func loadGraph(file string) (*statemachine.Definition[string], *statemachine.Graph[string], error) {
	if file == "" {
		return nil, nil, errors.New("-f is required")
	}
	def, err := statemachine.LoadDefinitionFile[string](file)
	if err != nil {
		return nil, nil, err
	}
	g, err := def.Build()
	if err != nil {
		return nil, nil, err
	}
	return def, g, nil
}

func runValidate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "definition file (yaml or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	def, g, err := loadGraph(*file)
	if err != nil {
		return err
	}

	// states other than the initial one that nothing leads to
	incoming := make(map[string]bool)
	for _, e := range g.Edges() {
		incoming[e.To] = true
	}
	for _, s := range g.States() {
		if s != def.Initial && !incoming[s] {
			fmt.Fprintf(stderr, "warning: state %q is unreachable\n", s)
		}
	}

	name := def.Name
	if name == "" {
		name = *file
	}
	fmt.Fprintf(stdout, "%s: ok (%d states, %d transitions, initial %q)\n",
		name, len(g.States()), len(g.Edges()), def.Initial)
	return nil
}
