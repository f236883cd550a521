package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels"
	"github.com/vovakirdan/tui-blast/internal/games/blast/levels/formats"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Check level files",
	Long: `Check level files against the authoring rules and start a session of each
valid level. Directories are searched for .yaml, .yml and .json files.
Every problem is printed with its code; the exit status is 1 if any file fails.

Examples:
  blast validate levels/level01.yaml
  blast validate ./my-levels`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	var files []string
	for _, arg := range args {
		found, err := levelFiles(arg)
		if err != nil {
			exitf("%v", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		exitf("no level files found")
	}

	failed := 0
	for _, path := range files {
		problems := checkLevelFile(path)
		if len(problems) == 0 {
			fmt.Printf("ok    %s\n", path)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", path)
		for _, p := range problems {
			fmt.Printf("      %s\n", p)
		}
	}

	fmt.Println()
	fmt.Printf("%d files, %d failed\n", len(files), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// levelFiles returns path itself, or the level files below it when it is a directory.
func levelFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var out []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(formats.FormatExtensions(), strings.ToLower(filepath.Ext(p))) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// checkLevelFile returns every problem of one level file.
func checkLevelFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{err.Error()}
	}
	f, err := formats.Parse(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return []string{"[PARSE] " + err.Error()}
	}

	if errs := levels.Validate(f); len(errs) > 0 {
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = e.Error()
		}
		return out
	}

	cfg, err := levels.Decode(f)
	if err != nil {
		return []string{"[DECODE] " + err.Error()}
	}
	if _, err := core.NewSession(cfg); err != nil {
		return []string{"[SESSION] " + err.Error()}
	}
	return nil
}
