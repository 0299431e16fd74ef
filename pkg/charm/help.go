package charm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brimdata/zavro/pkg/terminal"
	"github.com/kr/text"
)

// HelpOutput receives help text.
var HelpOutput io.Writer = os.Stderr

// splitFlags is like strings.Split with a comma and also trims whitespace
func splitFlags(flags string) []string {
	var out []string
	for _, flag := range strings.Split(flags, ",") {
		out = append(out, strings.TrimSpace(flag))
	}
	return out
}

// flagMap creates a map that maps a name to a boolean based on the existence
// of that name in the comma-separated string of flags.
func flagMap(flags string) map[string]bool {
	m := make(map[string]bool)
	if flags == "" {
		return m
	}
	for _, flag := range splitFlags(flags) {
		m[flag] = true
	}
	return m
}

func displayHelp(p path, showHidden bool) {
	spec := p.last().spec
	helpItem("NAME", p.pathname()+" - "+spec.Short)
	helpItem("USAGE", spec.Usage)
	helpList("OPTIONS", buildOptions(p, showHidden))
	if commands := subCommandLines(spec, showHidden); len(commands) > 0 {
		helpList("COMMANDS", commands)
	}
	if spec.Long != "" {
		helpDesc("DESCRIPTION", spec.Long)
	}
}

func subCommandLines(target *Spec, showHidden bool) []string {
	var lines []string
	for _, cmd := range target.children {
		name := cmd.Name
		if cmd.Hidden {
			if !showHidden {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+cmd.Short)
	}
	return lines
}

// buildOptions lists the flags of the last command in p followed by those
// of each ancestor under a header naming it.
func buildOptions(p path, showHidden bool) []string {
	lines := p.last().options(showHidden)
	if len(lines) == 0 {
		lines = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		options := p[k].options(showHidden)
		if len(options) == 0 {
			continue
		}
		lines = append(lines, "", "["+p[:k+1].pathname()+" flags]")
		lines = append(lines, options...)
	}
	return lines
}

func formatParagraph(body, tab string, lineWidth int) string {
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		paragraph = text.Wrap(strings.Join(strings.Fields(paragraph), " "), lineWidth)
		chunks = append(chunks, strings.ReplaceAll(paragraph, "\n", "\n"+tab))
	}
	return tab + strings.Join(chunks, "\n\n"+tab) + "\n\n"
}

const tab = "    "

func header(heading string) string {
	if !terminal.IsTerminalFile(os.Stderr) {
		return heading
	}
	return "\033[1m" + heading + "\033[0m"
}

func helpItem(heading, body string) {
	fmt.Fprint(HelpOutput, header(heading)+"\n"+tab+body+"\n\n")
}

func helpDesc(heading, body string) {
	lineWidth := terminal.Width() - len(tab) - 5
	fmt.Fprint(HelpOutput, header(heading)+"\n"+formatParagraph(body, tab, lineWidth))
}

func helpList(heading string, lines []string) {
	fmt.Fprint(HelpOutput, header(heading)+"\n"+tab+strings.Join(lines, "\n"+tab)+"\n\n")
}
