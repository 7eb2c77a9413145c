package scenario

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunFile loads and checks one scenario file.
func (r *Runner) RunFile(path string) ([]Issue, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return r.Check(path, f), nil
}

// ProcessPaths checks every scenario file under paths. Issues keep the
// order of the paths and, within a directory, the lexical file order.
func (r *Runner) ProcessPaths(ctx context.Context, paths []string) ([]Issue, error) {
	var allIssues []Issue
	for _, path := range paths {
		issues, err := r.ProcessPath(ctx, path)
		if err != nil {
			r.logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

// ProcessPath checks a scenario file, or every scenario file below a
// directory. Files of a directory are checked concurrently.
func (r *Runner) ProcessPath(ctx context.Context, path string) ([]Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return r.RunFile(path)
	}

	files, err := scenarioFiles(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make([][]Issue, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			issues, err := r.RunFile(file)
			if err != nil {
				r.logger.Error("Error processing file", zap.String("file", file), zap.Error(err))
				return err
			}
			results[i] = issues
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = bar.Finish()

	var issues []Issue
	for _, fileIssues := range results {
		issues = append(issues, fileIssues...)
	}
	return issues, nil
}

func scenarioFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasScenarioExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
