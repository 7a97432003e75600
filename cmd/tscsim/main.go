// Command tscsim runs the TSC instruction-set simulator against an ELF or
// raw-hex program image.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tsc-sim/tsc-sim/api"
	"github.com/tsc-sim/tsc-sim/config"
	"github.com/tsc-sim/tsc-sim/debugger"
	"github.com/tsc-sim/tsc-sim/loader"
	"github.com/tsc-sim/tsc-sim/vm"
)

// Version information - overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in line-mode debugger")
		tuiMode     = flag.Bool("tui", false, "Start in TUI debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP monitoring API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		maxCycles   = flag.Uint64("max-cycles", 1000000, "Maximum cycles before a forced halt")
		entryFlag   = flag.String("entry", "", "Entry point override (hex, e.g. 0x0010); default uses the image's own entry")
		hexInput    = flag.Bool("hex", false, "Treat the input file as a raw hex image instead of ELF")
		inputFile   = flag.String("input", "", "Bulk-load raw bytes into memory before running")
		outputFile  = flag.String("output", "", "Bulk-dump memory to a file after running")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
		statsFormat = flag.String("stats-format", "", "Statistics format: json, csv, or html (default: config value)")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: config value; empty prints to stdout)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tscsim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg, *apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}
	imagePath := flag.Arg(0)
	data, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", imagePath, err)
		os.Exit(1)
	}

	machineCfg := vm.DefaultMachineConfig()
	machineCfg.MemStart = cfg.Execution.MemStart
	machineCfg.MemSize = cfg.Execution.MemSize
	machineCfg.SplitMemory = cfg.Execution.SplitMemory
	machineCfg.DMemStart = cfg.Execution.DMemStart
	machineCfg.DMemSize = cfg.Execution.DMemSize

	var img loader.Image
	if *hexInput {
		img = loader.LoadHex(data)
	} else {
		img, err = loader.LoadELF(data, loader.MemoryLayout{
			SplitMemory: cfg.Execution.SplitMemory,
			DMemStart:   cfg.Execution.DMemStart,
			DMemSize:    cfg.Execution.DMemSize,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading ELF image: %v\n", err)
			os.Exit(1)
		}
	}

	machineCfg.EntryPoint = img.EntryPoint
	if *entryFlag != "" {
		v, ok, perr := config.ParseEntry(*entryFlag)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			os.Exit(1)
		}
		if ok {
			machineCfg.EntryPoint = vm.Word(v)
		}
	} else if v, ok, _ := config.ParseEntry(cfg.Execution.EntryOverride); ok {
		machineCfg.EntryPoint = vm.Word(v)
	}

	maxCyclesSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "max-cycles" {
			maxCyclesSet = true
		}
	})
	if !maxCyclesSet && cfg.Execution.MaxCycles != 0 {
		*maxCycles = cfg.Execution.MaxCycles
	}
	if cfg.Trace.LogLevel > 0 {
		machineCfg.Log = vm.NewLog(os.Stderr, cfg.Trace.LogLevel, vm.Word(cfg.Trace.StartCycle))
	}

	machine, err := vm.NewMachine(machineCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error constructing machine: %v\n", err)
		os.Exit(1)
	}

	if err := img.Apply(machine); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program image: %v\n", err)
		os.Exit(1)
	}

	if *inputFile != "" {
		if err := loader.LoadMemory(machine.DMem, *inputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *tuiMode {
		runTUI(machine, maxCycles, cfg.Debugger.HistorySize)
		return
	}
	if *debugMode {
		runLineDebugger(machine, maxCycles, cfg.Debugger.HistorySize)
		return
	}

	status := runWithCycleLimit(machine, *maxCycles)

	if *outputFile != "" {
		if err := loader.DumpMemory(machine.DMem, *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	format := cfg.Statistics.Format
	if *statsFormat != "" {
		format = *statsFormat
	}
	file := cfg.Statistics.OutputFile
	if *statsFile != "" {
		file = *statsFile
	}
	writeStats(&machine.Stats, format, file)

	fmt.Fprintf(os.Stderr, "Terminated: %s (exit code %d)\n", status, status.ExitCode())
	os.Exit(status.ExitCode())
}

// runWithCycleLimit steps the machine until it halts, faults, or exhausts
// maxCycles (spec.md §9 suggests a host-enforced cycle cap as a safety net
// distinct from any in-core exception). Exhausting maxCycles reports Halt,
// same as an in-program HLT; this is a safety-net stop rather than a
// genuine HLT, but nothing downstream currently distinguishes the two.
func runWithCycleLimit(m *vm.Machine, maxCycles uint64) vm.ExceptionStatus {
	for m.Stats.Cycle < maxCycles {
		if status := m.Step(); status.Terminal() {
			return status
		}
	}
	return vm.Halt
}

func runAPIServer(cfg *config.Config, port int) {
	server := api.NewServer(port, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down API server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(m *vm.Machine, maxCycles *uint64, historySize int) {
	dbg := debugger.New(m, *maxCycles, historySize)
	if err := debugger.RunTUI(dbg); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

func runLineDebugger(m *vm.Machine, maxCycles *uint64, historySize int) {
	dbg := debugger.New(m, *maxCycles, historySize)
	dbg.RunLoop(os.Stdin, os.Stdout)
}

func writeStats(stats *vm.Stats, format, path string) {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path) // #nosec G304 -- user-specified stats output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating stats file: %v\n", err)
			return
		}
		defer f.Close()
		out = f
	}

	var err error
	switch strings.ToLower(format) {
	case "csv":
		err = stats.WriteCSV(out)
	case "html":
		err = stats.WriteHTML(out)
	case "json", "":
		err = stats.WriteJSON(out)
	default:
		stats.Show(out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing statistics: %v\n", err)
	}
}

func printHelp() {
	fmt.Println(`tscsim - a 16-bit TSC instruction-set simulator

Usage:
  tscsim [flags] <image-file>

Flags:`)
	flag.PrintDefaults()
}
