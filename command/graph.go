package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Private variables (alphabetical)

var (
	// labelRegex restricts pad labels to characters FFmpeg accepts unquoted.
	labelRegex = regexp.MustCompile(`^[A-Za-z0-9_:.]+$`)

	// streamSpecRegex matches input stream specifiers such as "0:v" or "1:a".
	streamSpecRegex = regexp.MustCompile(`^(\d+):[vas]$`)
)

// Public types (alphabetical)

// Chain is a comma-separated sequence of filters with optional input and
// output pad labels, e.g. "[0:v][1:v]overlay=10:10[out]".
type Chain struct {
	Inputs  []string
	Filters []Filter
	Outputs []string
}

// Filter is one filter invocation: a name and its colon-separated options.
type Filter struct {
	Name    string
	Options []string
}

// Graph is a semicolon-separated list of chains, the value of -filter_complex.
type Graph []Chain

// Public functions (alphabetical)

// NewFilter creates a filter from its name and options.
func NewFilter(name string, options ...string) Filter {
	return Filter{Name: name, Options: options}
}

// Public methods (alphabetical)

// String renders the chain with its labels.
func (c Chain) String() string {
	var sb strings.Builder
	for _, in := range c.Inputs {
		sb.WriteString("[" + in + "]")
	}
	for i, f := range c.Filters {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(f.String())
	}
	for _, out := range c.Outputs {
		sb.WriteString("[" + out + "]")
	}
	return sb.String()
}

// String renders name=opt1:opt2, or the bare name when there are no options.
func (f Filter) String() string {
	if len(f.Options) == 0 {
		return f.Name
	}
	return f.Name + "=" + strings.Join(f.Options, ":")
}

// String renders the complete filter graph.
func (g Graph) String() string {
	chains := make([]string, len(g))
	for i, c := range g {
		chains[i] = c.String()
	}
	return strings.Join(chains, ";")
}

// Validate checks the graph structure: every chain has filters, labels are
// well formed, every consumed label is either an input stream specifier or
// produced by an earlier chain, and no label is produced twice.
func (g Graph) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("filter graph is empty")
	}

	produced := make(map[string]bool)
	for i, c := range g {
		if len(c.Filters) == 0 {
			return fmt.Errorf("chain %d has no filters", i)
		}
		for _, f := range c.Filters {
			if f.Name == "" {
				return fmt.Errorf("chain %d has a filter without a name", i)
			}
		}
		for _, in := range c.Inputs {
			if !labelRegex.MatchString(in) {
				return fmt.Errorf("chain %d has invalid input label %q", i, in)
			}
			if streamSpecRegex.MatchString(in) {
				continue
			}
			if !produced[in] {
				return fmt.Errorf("chain %d consumes undefined label %q", i, in)
			}
		}
		for _, out := range c.Outputs {
			if !labelRegex.MatchString(out) || streamSpecRegex.MatchString(out) {
				return fmt.Errorf("chain %d has invalid output label %q", i, out)
			}
			if produced[out] {
				return fmt.Errorf("label %q is produced more than once", out)
			}
			produced[out] = true
		}
	}
	return nil
}

// ValidateInputs runs Validate and additionally checks that every stream
// specifier refers to one of the count inputs of the command.
func (g Graph) ValidateInputs(count int) error {
	if count <= 0 {
		return fmt.Errorf("filter graph has no inputs")
	}
	if err := g.Validate(); err != nil {
		return err
	}
	for i, c := range g {
		for _, in := range c.Inputs {
			m := streamSpecRegex.FindStringSubmatch(in)
			if m == nil {
				continue
			}
			if idx, err := strconv.Atoi(m[1]); err != nil || idx >= count {
				return fmt.Errorf("chain %d refers to missing input %q", i, in)
			}
		}
	}
	return nil
}
