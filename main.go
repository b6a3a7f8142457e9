// © Ben Garrett https://github.com/bengarrett/remime

// Remime determines the media type of files using their names and content.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bengarrett/remime/internal/cmd"
	"github.com/bengarrett/remime/internal/printer"
	"github.com/bengarrett/remime/internal/task"
	"github.com/bengarrett/remime/pkg/cache"
	"github.com/bengarrett/remime/pkg/magic"
	"github.com/bengarrett/remime/pkg/resolver"
	"github.com/gookit/color"
)

const (
	name  = "remime"
	winOS = "windows"
)

func main() {
	os.Exit(run(os.Stdout, os.Stdin, os.Args[1:]...))
}

// run the command using the arguments and return the exit code.
func run(w io.Writer, stdin io.Reader, args ...string) int {
	f, paths, err := cmd.Parse(name, args...)
	if err != nil {
		printer.Stderr(err)
		fmt.Fprint(w, task.Usage())
		return task.Major
	}
	if *f.Mono {
		color.Enable = false
	}
	switch {
	case *f.Help:
		fmt.Fprint(w, task.Help())
		return task.OK
	case *f.Version:
		fmt.Fprint(w, task.Version())
		return task.OK
	case len(paths) == 0 && !*f.List:
		fmt.Fprint(w, task.Usage())
		return task.OK
	}
	if runtime.GOOS == winOS {
		for _, path := range paths {
			if err := cmd.WindowsChk(path); err != nil {
				printer.Stderr(err)
				return task.Major
			}
		}
	}
	cfg := config(f)
	reg, err := resolver.Default(cfg)
	if err != nil {
		printer.Stderr(err)
		return task.Major
	}
	if *f.Debug {
		s, err := task.Debug(f, reg)
		if err != nil {
			printer.Stderr(err)
		}
		printer.DPrint(true, s)
	}
	if *f.List {
		if err := task.List(w, reg); err != nil {
			printer.Stderr(err)
			return task.Major
		}
		return task.OK
	}
	tk := task.Task{
		Registry:  reg,
		Bucket:    task.Bucket(cfg),
		All:       *f.All,
		Debug:     *f.Debug,
		Recursive: *f.Recursive,
		Verbose:   *f.Verbose,
		Stdin:     stdin,
		Out:       w,
	}
	if *f.Cache {
		db, err := openCache()
		if err != nil {
			printer.Stderr(err)
		} else {
			defer db.Close()
			tk.Cache = db
		}
	}
	code, err := tk.Run(paths...)
	if err != nil {
		printer.Stderr(err)
		return task.Major
	}
	if *f.Debug {
		printer.DPrint(true, tk.Summary())
		debugCache(&tk)
	}
	return code
}

// config returns the registry settings of the flags.
func config(f *cmd.Flags) resolver.Config {
	cfg := resolver.Config{
		Databases: *f.DBs,
		Deep:      *f.Deep,
		Policy:    magic.Longest,
	}
	if *f.Exact {
		cfg.Policy = magic.Exact
	}
	return cfg
}

func openCache() (*cache.DB, error) {
	path, err := cache.Location()
	if err != nil {
		return nil, err
	}
	return cache.Open(path)
}

func debugCache(tk *task.Task) {
	if tk.Cache == nil {
		return
	}
	printer.DPrint(true, fmt.Sprintf("cache bucket %q, %d hits", tk.Bucket, tk.Hits()))
	s, err := tk.Cache.Info()
	if err != nil {
		printer.Stderr(err)
	}
	printer.DPrint(true, s)
}
