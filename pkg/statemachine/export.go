package statemachine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Direction is the layout direction of an exported diagram.
type Direction string

const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

type exportConfig struct {
	name       string
	direction  Direction
	current    any
	hasCurrent bool
}

// ExportOption tunes DOT and Mermaid output.
type ExportOption func(*exportConfig)

// WithGraphName sets the DOT graph name. Mermaid output ignores it.
func WithGraphName(name string) ExportOption {
	return func(c *exportConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithDirection sets the layout direction.
func WithDirection(d Direction) ExportOption {
	return func(c *exportConfig) { c.direction = d }
}

// WithCurrent highlights state in the output. A value whose type is not
// comparable matches no state.
func WithCurrent(state any) ExportOption {
	return func(c *exportConfig) {
		c.current = state
		c.hasCurrent = true
	}
}

func newExportConfig(opts []ExportOption) *exportConfig {
	c := &exportConfig{name: "fsm", direction: LeftToRight}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *exportConfig) isCurrent(state any) bool {
	return c.hasCurrent && isComparable(c.current) && c.current == state
}

// DOT renders g as a Graphviz digraph. States and edges are emitted in
// first-seen order.
func DOT[S comparable](g *Graph[S], opts ...ExportOption) string {
	cfg := newExportConfig(opts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", strconv.Quote(cfg.name))
	fmt.Fprintf(&sb, "  rankdir=%s;\n", cfg.direction)
	sb.WriteString("  node [shape=box, style=rounded];\n")

	for _, s := range g.States() {
		name := strconv.Quote(fmt.Sprint(s))
		if cfg.isCurrent(s) {
			fmt.Fprintf(&sb, "  %s [style=\"rounded,filled\", fillcolor=lightblue];\n", name)
			continue
		}
		fmt.Fprintf(&sb, "  %s;\n", name)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  %s -> %s;\n",
			strconv.Quote(fmt.Sprint(e.From)),
			strconv.Quote(fmt.Sprint(e.To)),
		)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Mermaid renders g as a stateDiagram-v2. State names that are not valid
// Mermaid identifiers are sanitized and aliased to their original text.
func Mermaid[S comparable](g *Graph[S], opts ...ExportOption) string {
	cfg := newExportConfig(opts)

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "  direction %s\n", cfg.direction)

	ids := make(map[S]string)
	used := make(map[string]struct{})
	for _, s := range g.States() {
		label := fmt.Sprint(s)
		id := mermaidID(label)
		for base, n := id, 2; ; n++ {
			if _, taken := used[id]; !taken {
				break
			}
			id = base + "_" + strconv.Itoa(n)
		}
		used[id] = struct{}{}
		ids[s] = id
		if id != label {
			fmt.Fprintf(&sb, "  %s : %s\n", id, label)
		}
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  %s --> %s\n", ids[e.From], ids[e.To])
	}

	if cfg.hasCurrent {
		for _, s := range g.States() {
			if cfg.isCurrent(s) {
				sb.WriteString("  classDef current fill:#add8e6\n")
				fmt.Fprintf(&sb, "  class %s current\n", ids[s])
				break
			}
		}
	}
	return sb.String()
}

func mermaidID(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune('_')
	}
	if sb.Len() == 0 {
		return "state"
	}
	return sb.String()
}
