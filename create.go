package oaf

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Create builds an archive from the contents of dir.
//
// Entries are pushed in lexical walk order, directories before their
// contents, so archives built from identical trees are byte-identical
// (modulo file metadata). Directories become Directory records with empty
// payloads; regular files become File records whose payload is the file
// content. Each record's extra data holds its mode and modification time.
// Symbolic links and other irregular files are skipped and not followed.
//
// File contents are read with bounded concurrency; the context cancels
// in-flight reads.
func Create(ctx context.Context, dir string, opts ...CreateOption) ([]byte, error) {
	cfg := createConfig{readConcurrency: defaultReadConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	maxFiles := cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	log := cfg.log()
	log.Info("creating archive", "dir", dir)

	items, err := collectItems(ctx, dir, maxFiles, log)
	if err != nil {
		return nil, err
	}
	if err := readItems(ctx, dir, items, cfg.readConcurrency); err != nil {
		return nil, err
	}

	b := NewBuilder()
	for _, it := range items {
		if err := b.PushEntry(it.sig, it.path, it.meta, it.data); err != nil {
			return nil, err
		}
	}

	log.Debug("archive assembled", "entry_count", b.Len())
	return b.Finish()
}

func (c *createConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// createItem is one record to pack, collected during the walk and filled
// with content afterwards.
type createItem struct {
	path string
	sig  Signature
	meta []byte
	data []byte
}

// collectItems walks dir and records one item per directory and regular
// file, in lexical order.
func collectItems(ctx context.Context, dir string, maxFiles int, log *slog.Logger) ([]createItem, error) {
	var items []createItem
	fileCount := 0

	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			items = append(items, createItem{
				path: path,
				sig:  SignatureDirectory,
				meta: encodeFileMeta(info.Mode().Perm(), info.ModTime()),
			})
		case d.Type().IsRegular():
			if maxFiles > 0 && fileCount >= maxFiles {
				return fmt.Errorf("%w: limit %d", ErrTooManyFiles, maxFiles)
			}
			fileCount++
			info, err := d.Info()
			if err != nil {
				return err
			}
			items = append(items, createItem{
				path: path,
				sig:  SignatureFile,
				meta: encodeFileMeta(info.Mode().Perm(), info.ModTime()),
			})
		default:
			log.Debug("skipped irregular file", "path", path, "type", d.Type().String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// readItems fills file item payloads, reading up to concurrency files at a
// time.
func readItems(ctx context.Context, dir string, items []createItem, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range items {
		if !items[i].sig.IsFile() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(items[i].path)))
			if err != nil {
				return fmt.Errorf("read %s: %w", items[i].path, err)
			}
			items[i].data = data
			return nil
		})
	}
	return g.Wait()
}
