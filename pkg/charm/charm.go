// Package charm is minimilast CLI framework inspired by cobra and urfave/cli.
package charm

import (
	"errors"
	"flag"
	"strings"
)

var (
	NeedHelp = errors.New("help")
	ErrNoRun = errors.New("no run method")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden bool
	// Hidden flags (comma-separated) marks these flags as hidden.
	HiddenFlags string
	// Redacted flags (comma-separated) marks these flags as redacted,
	// where a flag is shown (if not hidden) but its default value is hidden,
	// e.g., as is useful for a password flag.
	RedactedFlags string
	children      []*Spec
	parent        *Spec
}

func (c *Spec) Add(child *Spec) {
	c.children = append(c.children, child)
	child.parent = c
}

func (c *Spec) Root() *Spec {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

func (c *Spec) lookupSub(name string) *Spec {
	for _, child := range c.children {
		if name == child.Name {
			return child
		}
	}
	return nil
}

// ExecRoot parses args against s and its descendants and runs the command
// they select.  A -h or -help flag anywhere, or a Run returning NeedHelp,
// displays help for the selected command.
func (s *Spec) ExecRoot(args []string) error {
	p, rest, showHidden, err := parse(s, args)
	if err == nil {
		err = p.run(rest)
	}
	if err == NeedHelp {
		p, err := parseHelp(s, args)
		if err != nil {
			return err
		}
		displayHelp(p, showHidden)
		return nil
	}
	return err
}

// parse walks args creating an instance for each command named, parsing
// each command's flags along the way.
func parse(spec *Spec, args []string) (path, []string, bool, error) {
	var p path
	var parent Command
	var showHidden bool
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return nil, nil, false, err
		}
		p = append(p, inst)
		rest, hidden, err := parseFlags(inst.flags, args)
		if hidden {
			showHidden = true
		}
		if err != nil {
			return p, nil, showHidden, err
		}
		if len(rest) == 0 {
			return p, rest, showHidden, nil
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, showHidden, nil
		}
		spec, parent, args = child, inst.command, rest[1:]
	}
}

func parseHelp(spec *Spec, args []string) (path, error) {
	var p path
	var parent Command
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return nil, err
		}
		p = append(p, inst)
		var next *Spec
		for _, arg := range args {
			if strings.HasPrefix(arg, "-") {
				continue
			}
			next = spec.lookupSub(arg)
			break
		}
		if next == nil {
			return p, nil
		}
		for k, arg := range args {
			if arg == next.Name {
				args = args[k+1:]
				break
			}
		}
		spec, parent = next, inst.command
	}
}

// parseFlags parses args with flags, turning a request for help into
// NeedHelp.  The second result reports whether hidden items were asked
// for with -hidden.
func parseFlags(flags *flag.FlagSet, args []string) ([]string, bool, error) {
	var help, hidden bool
	flags.BoolVar(&help, "h", false, "display help")
	flags.BoolVar(&help, "help", false, "display help")
	flags.BoolVar(&hidden, "hidden", false, "show hidden options")
	flags.Usage = func() {}
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, hidden, NeedHelp
		}
		return nil, hidden, err
	}
	if help || hidden {
		return nil, hidden, NeedHelp
	}
	return flags.Args(), hidden, nil
}
