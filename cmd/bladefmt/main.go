// Command bladefmt formats Blade-style HTML templates.
//
//	bladefmt [flags] pattern...
//
// Patterns are doublestar globs ("resources/**/*.blade.php") or literal
// paths; "-" reads from stdin and writes the result to stdout. Without -w
// or -l the formatted text goes to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"bladefmt.dev/bladefmt"
	"bladefmt.dev/bladefmt/internal/config"
	"bladefmt.dev/bladefmt/internal/log"
	"bladefmt.dev/bladefmt/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("bladefmt", flag.ExitOnError)
	var (
		write       = fs.Bool("w", false, "write result back to the source file")
		list        = fs.Bool("l", false, "list files whose formatting differs")
		verbose     = fs.Bool("v", false, "verbose logging")
		showVersion = fs.Bool("version", false, "print version and exit")
		configPath  = fs.String("config", "", "config file (default: discovered upward from cwd)")

		useTabs    = fs.Bool("use-tabs", false, "indent with tabs")
		tabWidth   = fs.Int("tab-width", 4, "indentation characters per level")
		printWidth = fs.Int("print-width", 80, "line-length threshold for exploding tag props")
		singleAttr = fs.Bool("single-attribute-per-line", false, "always put one tag prop per line")
	)
	fs.Parse(args)

	if *showVersion {
		fmt.Fprintln(stdout, "bladefmt", version.String())
		return 0
	}
	if *verbose {
		log.SetLevel(log.LevelDebug)
	}

	opts, err := loadOptions(*configPath)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	// Explicit flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "use-tabs":
			opts.UseTabs = *useTabs
		case "tab-width":
			opts.TabWidth = *tabWidth
		case "print-width":
			opts.PrintWidth = *printWidth
		case "single-attribute-per-line":
			opts.SingleAttributePerLine = *singleAttr
		}
	})

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: bladefmt [flags] pattern...")
		return 2
	}

	failed := false
	for _, pattern := range fs.Args() {
		if pattern == "-" {
			if err := formatStdin(stdin, stdout, opts); err != nil {
				log.Error("stdin: %v", err)
				failed = true
			}
			continue
		}
		paths, err := expand(pattern)
		if err != nil {
			log.Error("bad pattern %q: %v", pattern, err)
			failed = true
			continue
		}
		if len(paths) == 0 {
			log.Warn("no files match %q", pattern)
		}
		for _, path := range paths {
			if err := formatFile(path, *write, *list, stdout, opts); err != nil {
				log.Error("%s: %v", path, err)
				failed = true
			}
		}
	}
	if failed {
		return 1
	}
	return 0
}

func loadOptions(configPath string) (bladefmt.Options, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Default(), err
	}
	return config.Discover(cwd)
}

// expand resolves a doublestar pattern. A literal path that matches no
// glob (because of special characters) still resolves to itself.
func expand(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(filepath.ToSlash(pattern))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(pattern); statErr == nil {
			return []string{pattern}, nil
		}
	}
	return paths, nil
}

func formatStdin(stdin io.Reader, stdout io.Writer, opts bladefmt.Options) error {
	source, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	out, err := bladefmt.Format(string(source), opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func formatFile(path string, write, list bool, stdout io.Writer, opts bladefmt.Options) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := bladefmt.Format(string(source), opts)
	if err != nil {
		return err
	}

	switch {
	case list:
		if out != string(source) {
			fmt.Fprintln(stdout, path)
		}
	case write:
		if out == string(source) {
			log.Debug("%s unchanged", path)
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(out), info.Mode().Perm())
	default:
		_, err = io.WriteString(stdout, out)
		return err
	}
	return nil
}
