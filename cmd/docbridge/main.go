package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/docbridge/docbridge"
	"github.com/docbridge/docbridge/pipeline"
	"github.com/docbridge/docbridge/registry"
	"github.com/docbridge/docbridge/transform"

	_ "github.com/docbridge/docbridge/markdown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("docbridge v%s\n", docbridge.Version())
	case "help", "-h", "--help":
		printUsage()
	case "convert":
		if err := handleConvert(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "detect":
		if err := handleDetect(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "formats":
		handleFormats()
	case "transforms":
		handleTransforms()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// convertFlags contains flags for the convert command
type convertFlags struct {
	to         string
	output     string
	format     string
	transforms string
}

func setupConvertFlags() (*flag.FlagSet, *convertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &convertFlags{}

	fs.StringVar(&flags.to, "to", "markdown", "target format")
	fs.StringVar(&flags.output, "output", "", "output file (default stdout)")
	fs.StringVar(&flags.format, "format", "", "source format (default auto-detected)")
	fs.StringVar(&flags.transforms, "transforms", "", "comma-separated transform names")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: docbridge convert [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Convert a document to another format.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

func handleConvert(args []string) error {
	fs, flags := setupConvertFlags()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one input file, got %d", fs.NArg())
	}

	opts := []pipeline.Option{
		pipeline.WithFilePath(fs.Arg(0)),
		pipeline.WithTargetFormat(flags.to),
	}
	if flags.format != "" {
		opts = append(opts, pipeline.WithFormat(flags.format))
	}
	if flags.transforms != "" {
		opts = append(opts, pipeline.WithTransforms(splitList(flags.transforms)...))
	}
	if flags.output != "" {
		opts = append(opts, pipeline.WithOutputFile(flags.output))
	}

	result, err := pipeline.Convert(opts...)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = os.Stdout.Write(result.Output)
		return err
	}
	fmt.Printf("Converted %s (%s) to %s: %s\n",
		fs.Arg(0), result.SourceFormat, result.TargetFormat, flags.output)
	return nil
}

func handleDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: docbridge detect <file>\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one input file, got %d", fs.NArg())
	}

	meta, err := registry.Default().DetectFile(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", fs.Arg(0), meta.FormatName)
	return nil
}

func handleFormats() {
	reg := registry.Default()
	for _, name := range reg.Formats() {
		meta, err := reg.Get(name)
		if err != nil {
			continue
		}
		fmt.Printf("%-12s %s (%s)\n",
			name, meta.Description, strings.Join(meta.Extensions, ", "))
	}
}

func handleTransforms() {
	reg := transform.Default()
	for _, name := range reg.Names() {
		meta, err := reg.Get(name)
		if err != nil {
			continue
		}
		fmt.Printf("%-20s %s\n", name, meta.Description)
	}
}

func printUsage() {
	fmt.Println(`docbridge - document conversion toolkit

Usage: docbridge <command> [flags]

Commands:
  convert     Convert a document to another format
  detect      Detect the format of a file
  formats     List registered formats
  transforms  List available transforms
  version     Print the version
  help        Show this help`)
}

var commands = []string{
	"convert", "detect", "formats", "transforms", "version", "help",
}

// suggestCommand returns the closest known command within edit distance 2.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range commands {
		if d := editDistance(input, cmd); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
