// Package batch converts many ontology files with a bounded number of
// concurrent conversions.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/aboxer/pipeline"
)

// ErrNoInputs is returned when an input selects no files.
var ErrNoInputs = errors.New("no input files")

// Expand resolves inputs to the files to convert, without duplicates and in
// input order:
//   - "-" (standard input) is kept as is;
//   - a pattern containing glob characters is expanded with doublestar and
//     must match at least one file;
//   - a directory contributes every file below it whose slash-separated
//     path relative to the directory matches an include pattern and no
//     exclude pattern, sorted;
//   - anything else must be an existing file.
func Expand(inputs, include, exclude []string) ([]string, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, input := range inputs {
		if input == pipeline.StdinPath {
			add(input)
			continue
		}

		if containsGlob(input) {
			matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expand %q: %w", input, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: nothing matches %s", ErrNoInputs, input)
			}
			add(matches...)
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(input)
			continue
		}
		matches, err := walkDir(input, include, exclude)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no file in %s matches %s", ErrNoInputs, input, strings.Join(include, ", "))
		}
		add(matches...)
	}
	return files, nil
}

func walkDir(dir string, include, exclude []string) ([]string, error) {
	var out []string
	err := doublestar.GlobWalk(os.DirFS(dir), "**", func(rel string, d os.DirEntry) error {
		if d.IsDir() || !Selected(rel, include, exclude) {
			return nil
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(rel)))
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

// Selected reports whether the slash-separated relative path rel matches
// an include pattern and no exclude pattern. Patterns must be valid.
func Selected(rel string, include, exclude []string) bool {
	matched := false
	for _, p := range include {
		if ok, _ := doublestar.Match(p, rel); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, p := range exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	return true
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ConvertFunc converts one file.
type ConvertFunc func(ctx context.Context, path string) (*pipeline.Report, error)

// Result is the outcome of converting one file.
type Result struct {
	Path   string
	Report *pipeline.Report
	Err    error
}

// Run converts every path with at most workers conversions in flight. A
// failed file does not stop the others; files not yet started when ctx is
// cancelled fail with the context error. Results are in path order and the
// returned error joins all failures.
func Run(ctx context.Context, paths []string, workers int, convert ConvertFunc, logger *slog.Logger) ([]Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			report, err := convert(ctx, path)
			if err != nil {
				logger.Error("Conversion failed", slog.String("input", path), slog.Any("error", err))
				results[i].Err = err
				return nil
			}
			results[i].Report = report
			return nil
		})
	}
	_ = g.Wait() // workers record their errors in results

	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	logger.Info("Batch complete",
		slog.Int("files", len(paths)),
		slog.Int("failed", len(failed)))
	return results, errors.Join(failed...)
}
