package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces bursts of writes (editors, git checkouts) into
// one re-run.
const watchDebounce = 250 * time.Millisecond

// watchAndValidate validates input, then again after every change below
// it, until the command context is cancelled.
func watchAndValidate(cmd *cobra.Command, input string, s validateSettings) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, input); err != nil {
		return err
	}
	if s.configPath != "" {
		if err := watcher.Add(s.configPath); err != nil {
			return fmt.Errorf("watch %s: %w", s.configPath, err)
		}
	}
	// the progress view would fight with the watch output
	s.ui = uiModeOff

	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()
	rerun := func() {
		if _, err := validateOnce(cmd, input, s); err != nil {
			fmt.Fprintf(errOut, "addonlint: %v\n", err)
		}
		fmt.Fprintf(errOut, "addonlint: watching %s for changes (Ctrl-C to stop)\n", input)
	}
	rerun()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatches(watcher, ev.Name)
				}
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "addonlint: watch error: %v\n", err)
		case <-timer.C:
			rerun()
		}
	}
}

// addWatches registers root and, for directories, every subdirectory.
// fsnotify does not watch recursively.
func addWatches(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && (name == ".git" || name == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
