package main

import (
	"fmt"
	"os"

	"github.com/brimdata/zavro/cmd/zavro/blocks"
	"github.com/brimdata/zavro/cmd/zavro/cat"
	"github.com/brimdata/zavro/cmd/zavro/decode"
	"github.com/brimdata/zavro/cmd/zavro/meta"
	"github.com/brimdata/zavro/cmd/zavro/probe"
	"github.com/brimdata/zavro/cmd/zavro/root"
)

func main() {
	zavro := root.Zavro
	zavro.Add(blocks.Cmd)
	zavro.Add(cat.Cmd)
	zavro.Add(decode.Cmd)
	zavro.Add(meta.Cmd)
	zavro.Add(probe.Cmd)
	if err := zavro.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
