package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chip8vm/chip8/internal/clock"
)

const (
	// DefaultSpeed is the instruction rate in Hz.
	DefaultSpeed = clock.DefaultSpeed

	// DefaultScale is the number of window pixels per CHIP-8 pixel.
	DefaultScale = 10

	minSpeed = clock.MinSpeed
	maxSpeed = clock.MaxSpeed
	maxScale = 40
)

// Options contains the settings shared by all CHIP-8 tools.
type Options struct {
	File string // ROM, or assembler source ending in .asm

	Speed  int   // instructions per second
	Scale  int   // window scale factor
	Seed   int64 // RND seed, 0 seeds from the clock
	Paused bool  // start with emulation paused

	Output      string // assembler output file
	Disassemble bool   // list the file instead of assembling it

	Debug bool
	Quiet bool
}

// UsageError represents an error that should show usage information
type UsageError struct {
	name  string
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid arguments"
	}
	return e.msg
}

// ShowUsage prints the usage line and flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: %s [options] <file>\n\n", e.name)

	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the arguments following the program name. If
// fileRequired is set a missing file argument is a usage error.
func ParseFlags(name string, args []string, fileRequired bool) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	usage := func(msg string) error {
		return &UsageError{name: name, flags: flags, msg: msg}
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, usage("")
		}
		return opts, usage(err.Error())
	}

	rest := flags.Args()
	switch {
	case len(rest) > 1:
		if strings.HasPrefix(rest[1], "-") {
			return opts, usage(fmt.Sprintf("option %s found after the file name, options must come first", rest[1]))
		}
		return opts, usage("only one file can be given")
	case len(rest) == 1:
		opts.File = rest[0]
	case fileRequired:
		return opts, usage("")
	}

	if opts.Speed < minSpeed || opts.Speed > maxSpeed {
		return opts, usage(fmt.Sprintf("speed %d out of range [%d, %d]", opts.Speed, minSpeed, maxSpeed))
	}
	if opts.Scale < 1 || opts.Scale > maxScale {
		return opts, usage(fmt.Sprintf("scale %d out of range [1, %d]", opts.Scale, maxScale))
	}

	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Speed, "speed", DefaultSpeed, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "size of a CHIP-8 pixel in window pixels")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the RND instruction, 0 uses the current time")
	flags.BoolVar(&opts.Paused, "paused", false, "start with emulation paused")
	flags.StringVar(&opts.Output, "o", "", "name of the assembled output file")
	flags.BoolVar(&opts.Disassemble, "d", false, "print a disassembly listing of the file")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
