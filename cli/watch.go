package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a single file.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// newFileWatcher starts watching path. The parent directory is watched
// because editors often replace a file rather than write to it.
func newFileWatcher(path string, logger *slog.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &fileWatcher{path: abs, watcher: w, logger: logger}, nil
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}

// Run calls onChange after every write or re-creation of the file until ctx
// is done or the watcher fails.
func (fw *fileWatcher) Run(ctx context.Context, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fw.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", fw.path, err)
		}
	}
}

// watchAndParse parses path once, then again after each change. Parse errors
// are reported and watching continues.
func watchAndParse(ctx context.Context, opts *options, path string) error {
	fw, err := newFileWatcher(path, opts.logger)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	reparse := func() {
		if err := parseFile(opts, path); err != nil {
			FormatError(opts.stderr, err, opts.useColor())
		}
	}

	reparse()
	return fw.Run(ctx, func() {
		_, _ = fmt.Fprintf(opts.stdout, "%s\n", Colorize("--- "+path+" changed ---", ColorCyan, opts.useColor()))
		reparse()
	})
}
