package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	blockdupes "github.com/mattkeenan/blockdupes/pkg"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, setupSignalHandler()))
}

func defineOptions() *ParsedOptions {
	options := NewParsedOptions()
	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help message")
	options.DefineOption("version", "", OptionTypeBool, "false", "Show version information")
	options.DefineOption("config", "c", OptionTypeString, "", "INI configuration file")
	options.DefineOption("block-size", "b", OptionTypeString, "", "Bytes compared per round, e.g. 4096, 64K (default 4096)")
	options.DefineOption("hash", "", OptionTypeString, "", "Block hash: crc32, md5, blake3 (default crc32)")
	options.DefineOption("workers", "j", OptionTypeInt, "", "Size classes compared concurrently (default 4)")
	options.DefineOption("min-size", "", OptionTypeInt, "", "Ignore files smaller than this many bytes (default 2)")
	options.DefineOption("format", "", OptionTypeString, "", "Output format: human, json (default human)")
	options.DefineOption("from", "", OptionTypeString, "", "Read paths from FILE, or - for stdin")
	options.DefineOption("null", "0", OptionTypeBool, "false", "Paths are NUL-separated, as printed by find -print0")
	options.DefineOption("metrics-file", "", OptionTypeString, "", "Write Prometheus metrics to FILE when done")
	options.DefineOption("verbose", "v", OptionTypeInt, "0", "Enable verbose output (can be repeated for more verbosity)")
	options.DefineOption("debug", "", OptionTypeString, "", "Debug flags: round, reader, pool (comma-separated)")
	return options
}

// run executes one invocation and returns the process exit code
func run(argv []string, stdin io.Reader, stdout *os.File, shutdownChan <-chan struct{}) int {
	options := defineOptions()
	if err := options.Parse(argv); err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		fmt.Fprintf(os.Stderr, "Try 'blockdupes --help' for more information.\n")
		return 1
	}

	if options.GetBool("version") {
		fmt.Fprintf(stdout, "blockdupes %s\n", version)
		return 0
	}
	if options.GetBool("help") {
		showHelp(stdout, options)
		return 0
	}

	config, err := loadConfig(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		return 1
	}

	all := config.GetAllConfig()
	blockdupes.SetVerboseLevel(all.Verbose.Level)
	blockdupes.InitDebugFlags(all.Verbose.Debug)

	engineOpts, err := config.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		return 1
	}

	var metrics *blockdupes.Metrics
	metricsFile := options.GetString("metrics-file")
	if metricsFile != "" {
		metrics = blockdupes.NewMetrics()
		engineOpts.Metrics = metrics
	}

	paths, err := gatherPaths(options, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		return 1
	}

	collectOpts := blockdupes.CollectOptions{
		MinSize:        all.Collect.MinSize,
		FollowSymlinks: all.Collect.FollowSymlinks,
	}

	result, err := blockdupes.FindDuplicatesInPaths(shutdownChan, paths, collectOpts, engineOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		return 1
	}

	if len(result.Warnings) > 0 {
		blockdupes.VerboseLog(1, "%d files could not be compared", len(result.Warnings))
	}

	if err := blockdupes.WriteReport(stdout, result.Groups, all.Output.Format); err != nil {
		fmt.Fprintf(os.Stderr, "blockdupes: %v\n", err)
		return 1
	}

	if metrics != nil {
		if err := metrics.WriteToTextfile(metricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "blockdupes: failed to write metrics: %v\n", err)
			return 1
		}
	}

	return 0
}

// loadConfig reads the configuration file and layers explicitly set options on top
func loadConfig(options *ParsedOptions) (*blockdupes.Config, error) {
	config, err := blockdupes.LoadConfig(options.GetString("config"))
	if err != nil {
		return nil, err
	}

	var overrides []string
	for option, key := range map[string]string{
		"block-size": "block_size",
		"hash":       "hash",
		"workers":    "workers",
		"min-size":   "min_size",
		"format":     "format",
		"debug":      "debug",
	} {
		if options.IsSet(option) {
			overrides = append(overrides, key+":"+options.GetString(option))
		}
	}
	if options.IsSet("verbose") {
		// -vvvv and beyond mean "as verbose as possible"
		level := min(options.GetInt("verbose"), blockdupes.MaxVerboseLevel)
		overrides = append(overrides, "level:"+strconv.Itoa(level))
	}

	if err := config.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// gatherPaths combines positional paths with --from. With neither, paths come from stdin.
func gatherPaths(options *ParsedOptions, stdin io.Reader) ([]string, error) {
	paths := options.GetArgs()
	from := options.GetString("from")
	if from == "" && len(paths) > 0 {
		return paths, nil
	}

	var r io.Reader = stdin
	if from != "" && from != "-" {
		f, err := os.Open(from)
		if err != nil {
			return nil, fmt.Errorf("failed to open path list: %w", err)
		}
		defer f.Close()
		r = f
	}

	listed, err := blockdupes.ReadPathList(r, options.GetBool("null"))
	if err != nil {
		return nil, err
	}
	return append(paths, listed...), nil
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "blockdupes - find duplicate files by block-wise comparison\n\n")
	fmt.Fprintf(w, "Usage: blockdupes [OPTIONS] [PATH...]\n\n")
	fmt.Fprintf(w, "Each PATH must name a file; directories are not walked. Without PATH\n")
	fmt.Fprintf(w, "arguments or --from, paths are read from stdin, one per line.\n\n")
	fmt.Fprintf(w, "Options:\n")
	options.WriteUsage(w)
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  find . -type f -print0 | blockdupes -0\n")
	fmt.Fprintf(w, "  blockdupes --hash=blake3 --block-size=64K --format=json a.iso b.iso\n")
}
