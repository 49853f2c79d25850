// Package main provides the thumbdis command.
// thumbdis disassembles 16-bit Thumb code from raw words, ELF images or
// executed-address traces.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/thumbdis/config"
	"github.com/sarchlab/thumbdis/disasm"
	"github.com/sarchlab/thumbdis/loader"
	"github.com/sarchlab/thumbdis/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	tracePath  string
	verbose    bool
	dump       bool
	words      bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("thumbdis", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration JSON file")
	fs.StringVar(&opts.tracePath, "trace", "", "Path to executed-address trace (requires an ELF image)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.dump, "dump", false, "Dump decoded instruction fields (with -words)")
	fs.BoolVar(&opts.words, "words", false, "Treat arguments as hexadecimal instruction words")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: thumbdis [options] <program.elf>\n")
		fmt.Fprintf(stderr, "       thumbdis -words [options] <hexword>...\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.args = fs.Args()
	if len(opts.args) < 1 {
		fs.Usage()
		return nil, fmt.Errorf("missing arguments")
	}
	if opts.words && opts.tracePath != "" {
		return nil, fmt.Errorf("-trace cannot be combined with -words")
	}

	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	cfg := config.Default()
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	if opts.words {
		return runWords(opts, stdout, stderr)
	}

	return runImage(opts, cfg, stdout, stderr)
}

// runWords disassembles words given on the command line.
func runWords(opts *options, stdout, stderr io.Writer) int {
	d := disasm.New()

	for _, arg := range opts.args {
		digits := strings.TrimPrefix(strings.TrimPrefix(arg, "0x"), "0X")
		word, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid instruction word %q\n", arg)
			return 1
		}

		inst := d.Decode(uint16(word))
		fmt.Fprintf(stdout, "%04x  %s\n", word, disasm.Format(inst))
		if opts.dump {
			spew.Fdump(stdout, inst)
		}
	}

	return 0
}

// runImage lists an ELF image, or replays a trace against it.
func runImage(opts *options, cfg *config.Config, stdout, stderr io.Writer) int {
	programPath := opts.args[0]

	// Load the ELF program
	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "Loaded: %s\n", programPath)
		fmt.Fprintf(stdout, "Entry point: 0x%X (thumb: %v)\n", prog.EntryPoint, prog.ThumbEntry)
		fmt.Fprintf(stdout, "Segments: %d\n", len(prog.Segments))
	}

	if opts.tracePath == "" {
		if err := trace.List(prog, stdout, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	f, err := os.Open(opts.tracePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening trace: %v\n", err)
		return 1
	}
	defer func() { _ = f.Close() }()

	addrs, err := trace.ParseAddresses(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing trace: %v\n", err)
		return 1
	}

	replayer := trace.NewReplayer(prog, cfg)
	if err := replayer.Replay(addrs, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.verbose {
		stats := replayer.Stats()
		fmt.Fprintf(stdout, "\nTrace: %s\n", opts.tracePath)
		fmt.Fprintf(stdout, "Instructions: %d\n", len(addrs))
		fmt.Fprintf(stdout, "Text cache: %d hits, %d misses, %d evictions\n",
			stats.Hits, stats.Misses, stats.Evictions)
	}

	return 0
}
