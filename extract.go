package oaf

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Extract writes an archive's records under destDir.
//
// Directory records are created with MkdirAll; File records are written
// atomically via a temp file and rename. Record names must be valid
// fs-style paths ("a/b/c"); anything else, including traversal attempts,
// fails with fs.ErrInvalid before any byte is written. OS-specific records
// are skipped.
//
// By default existing files are skipped and recorded modes/times are not
// restored; see ExtractWithOverwrite, ExtractWithPreserveMode, and
// ExtractWithPreserveTimes.
func Extract(ctx context.Context, a *Archive, destDir string, opts ...ExtractOption) error {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log()

	// Validate every name up front so a malicious archive cannot write
	// anything before being rejected.
	for e := range a.Entries() {
		if !fs.ValidPath(e.Name()) || e.Name() == "." {
			return &fs.PathError{Op: "extract", Path: e.Name(), Err: fs.ErrInvalid}
		}
	}

	for e := range a.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(destDir, filepath.FromSlash(e.Name()))

		switch {
		case e.Signature().IsDirectory():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			if err := applyMeta(target, e.ExtraData(), &cfg); err != nil {
				return err
			}
		case e.Signature().IsFile():
			if !cfg.overwrite {
				if _, err := os.Stat(target); err == nil {
					log.Debug("skipped existing file", "path", e.Name())
					continue
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeFileAtomic(target, e.Data(), e.ExtraData(), &cfg); err != nil {
				return err
			}
		default:
			log.Debug("skipped os-specific record", "path", e.Name())
		}
	}
	return nil
}

func (c *extractConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// writeFileAtomic writes data to target via a temp file and rename.
func writeFileAtomic(target string, data, meta []byte, cfg *extractConfig) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".oaf-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := applyMeta(tmpPath, meta, cfg); err != nil {
		return err
	}

	// On Windows, rename fails over an existing file. Harmless on Unix.
	if cfg.overwrite {
		_ = os.Remove(target)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("renaming to destination: %w", err)
	}
	success = true
	return nil
}

// applyMeta restores mode and times recorded in the entry's extra data,
// when requested and present.
func applyMeta(path string, meta []byte, cfg *extractConfig) error {
	m, ok := decodeFileMeta(meta)
	if !ok {
		return nil
	}
	if cfg.preserveMode {
		if err := os.Chmod(path, m.mode.Perm()); err != nil {
			return fmt.Errorf("setting mode: %w", err)
		}
	}
	if cfg.preserveTimes {
		if err := os.Chtimes(path, m.modTime, m.modTime); err != nil {
			return fmt.Errorf("setting times: %w", err)
		}
	}
	return nil
}
