package charm

import (
	"flag"
	"fmt"
	"strings"
)

// instance is a command created from its Spec with its flags registered.
type instance struct {
	spec    *Spec
	command Command
	flags   *flag.FlagSet
}

func newInstance(parent Command, spec *Spec) (*instance, error) {
	if spec.New == nil {
		return nil, fmt.Errorf("command %q: New function is nil", spec.Name)
	}
	flags := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
	cmd, err := spec.New(parent, flags)
	if err != nil {
		return nil, err
	}
	return &instance{spec, cmd, flags}, nil
}

// options returns one help line per flag.  Flags named in HiddenFlags are
// shown in brackets, and only when showHidden is set.
func (i *instance) options(showHidden bool) []string {
	hidden := flagMap(i.spec.HiddenFlags)
	redacted := flagMap(i.spec.RedactedFlags)
	var lines []string
	i.flags.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "h", "help", "hidden":
			return
		}
		name := "-" + f.Name
		if hidden[f.Name] {
			if !showHidden {
				return
			}
			name = "[" + name + "]"
		}
		arg, usage := flag.UnquoteUsage(f)
		if arg != "" {
			name += " " + arg
		}
		line := name + "  " + usage
		if f.DefValue != "" && f.DefValue != "false" && !redacted[f.Name] {
			line = fmt.Sprintf("%s (default %q)", line, f.DefValue)
		}
		lines = append(lines, line)
	})
	return lines
}

// path holds the instances of the commands named on the command line,
// from the root to the command being run.
type path []*instance

func (p path) last() *instance {
	return p[len(p)-1]
}

func (p path) run(args []string) error {
	err := p.last().command.Run(args)
	if err != ErrNoRun {
		return err
	}
	commands := p.visibleCommands()
	if len(args) == 0 {
		return fmt.Errorf("%q: requires a sub-command (one of %s)", p.pathname(), commands)
	}
	return fmt.Errorf("%q: no such sub-command %q (one of %s)", p.pathname(), args[0], commands)
}

func (p path) pathname() string {
	names := make([]string, 0, len(p))
	for _, inst := range p {
		names = append(names, inst.spec.Name)
	}
	return strings.Join(names, " ")
}

func (p path) visibleCommands() string {
	var names []string
	for _, child := range p.last().spec.children {
		if !child.Hidden {
			names = append(names, child.Name)
		}
	}
	return strings.Join(names, ", ")
}
