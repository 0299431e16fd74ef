// Package cli holds the flags and start-up logic shared by the commands of
// the zavro tool.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
)

type Flags struct {
	showVersion    bool
	configPath     string
	cpuprofile     string
	memprofile     string
	cpuProfileFile *os.File
	flagSets       []*flag.FlagSet
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.flagSets = append(f.flagSets, fs)
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	fs.StringVar(&f.configPath, "config", "", "YAML file of flag defaults keyed by flag name")
	fs.StringVar(&f.cpuprofile, "cpuprofile", "", "write cpu profile to given file name")
	fs.StringVar(&f.memprofile, "memprofile", "", "write memory profile to given file name")
}

// AddFlagSet makes the flags of a subcommand settable from the -config
// file.
func (f *Flags) AddFlagSet(fs *flag.FlagSet) {
	f.flagSets = append(f.flagSets, fs)
}

type Initializer interface {
	Init() error
}

// Init applies the config file, then initializes each flag group, and
// returns a context canceled on interrupt.  The cleanup function must be
// called when the command finishes.
func (f *Flags) Init(all ...Initializer) (context.Context, context.CancelFunc, error) {
	if f.showVersion {
		fmt.Printf("Version: %s\n", Version())
		os.Exit(0)
	}
	if f.configPath != "" {
		if err := ApplyConfig(f.configPath, f.flagSets...); err != nil {
			return nil, nil, err
		}
	}
	var err error
	for _, flags := range all {
		if initErr := flags.Init(); err == nil {
			err = initErr
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if f.cpuprofile != "" {
		if err := f.startCPUProfile(f.cpuprofile); err != nil {
			return nil, nil, err
		}
	}
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGPIPE, syscall.SIGTERM)
	cleanup := func() {
		cancel()
		f.cleanup()
	}
	return &interruptedContext{ctx}, cleanup, nil
}

type interruptedContext struct{ context.Context }

func (i *interruptedContext) Err() error {
	err := i.Context.Err()
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}

func (f *Flags) cleanup() {
	if f.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		f.cpuProfileFile.Close()
	}
	if f.memprofile != "" {
		if err := writeMemProfile(f.memprofile); err != nil {
			fmt.Fprintf(os.Stderr, "memprofile: %s\n", err)
		}
	}
}

func (f *Flags) startCPUProfile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cpuprofile: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("cpuprofile: %w", err)
	}
	f.cpuProfileFile = file
	return nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
