// Package sorter moves every file below a directory into per-kind bucket
// folders (images, videos, documents, audio, archives, unknown) and removes the
// directories left empty.
package sorter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

// Bucket is the folder a file kind is moved into.
type Bucket string

// Buckets, in display order.
const (
	Images    Bucket = "images"
	Videos    Bucket = "videos"
	Documents Bucket = "documents"
	Audio     Bucket = "audio"
	Archives  Bucket = "archives"
	Unknown   Bucket = "unknown"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Images, Videos, Documents, Audio, Archives, Unknown}

var extensions = map[string]Bucket{
	"jpeg": Images, "png": Images, "jpg": Images, "svg": Images, "bmp": Images,
	"avi": Videos, "mp4": Videos, "mov": Videos, "mkv": Videos,
	"docx": Documents, "doc": Documents, "txt": Documents, "pdf": Documents, "xlsx": Documents, "pptx": Documents,
	"mp3": Audio, "ogg": Audio, "wav": Audio, "amr": Audio,
	"zip": Archives, "gz": Archives, "rar": Archives, "tar": Archives,
}

// Classify returns the bucket for a file name, by extension, case-insensitively.
func Classify(name string) Bucket {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if b, ok := extensions[ext]; ok {
		return b
	}
	return Unknown
}

// Move records one relocated file. Paths are relative to the sorted root.
type Move struct {
	From   string
	To     string
	Bucket Bucket
	Size   int64
}

// Result summarises a Sort run.
type Result struct {
	Moves       []Move
	Skipped     []string // destination already taken
	RemovedDirs []string
}

// Count returns the number of files moved into b.
func (r *Result) Count(b Bucket) int {
	n := 0
	for _, m := range r.Moves {
		if m.Bucket == b {
			n++
		}
	}
	return n
}

// Summary renders a one-line report.
func (r *Result) Summary() string {
	var total int64
	for _, m := range r.Moves {
		total += m.Size
	}
	return fmt.Sprintf("moved %d files (%s), skipped %d, removed %d empty directories",
		len(r.Moves), humanize.Bytes(uint64(total)), len(r.Skipped), len(r.RemovedDirs)) // #nosec G115 -- sizes are non-negative
}

// Sort moves every regular file below root into root/<bucket>/. Files already
// directly inside their bucket folder stay put. When the destination name is
// taken the file is skipped. ctx is checked between moves.
func Sort(ctx context.Context, root string) (*Result, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*")
	if err != nil {
		return nil, fmt.Errorf("sorter.Sort: glob: %w", err)
	}
	slices.Sort(matches)

	res := &Result{}
	created := make(map[Bucket]bool)
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Lstat(src)
		if err != nil {
			// Moved or removed while sorting.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		bucket := Classify(info.Name())
		destRel := filepath.Join(string(bucket), info.Name())
		if filepath.FromSlash(rel) == destRel {
			continue
		}
		dest := filepath.Join(root, destRel)

		if !created[bucket] {
			if err := os.MkdirAll(filepath.Join(root, string(bucket)), 0o755); err != nil {
				return res, fmt.Errorf("sorter.Sort: create %s: %w", bucket, err)
			}
			created[bucket] = true
		}

		if _, err := os.Lstat(dest); err == nil {
			slog.Warn("sorter: destination exists, skipping", "file", rel, "dest", destRel)
			res.Skipped = append(res.Skipped, filepath.FromSlash(rel))
			continue
		}
		if err := os.Rename(src, dest); err != nil {
			return res, fmt.Errorf("sorter.Sort: move %s: %w", rel, err)
		}
		res.Moves = append(res.Moves, Move{
			From:   filepath.FromSlash(rel),
			To:     destRel,
			Bucket: bucket,
			Size:   info.Size(),
		})
	}

	removed, err := RemoveEmptyDirs(root)
	res.RemovedDirs = removed
	if err != nil {
		return res, err
	}
	return res, nil
}

// RemoveEmptyDirs deletes every empty directory below root, deepest first, so
// that parents emptied by the removal go too. root itself is kept.
func RemoveEmptyDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sorter.RemoveEmptyDirs: %w", err)
	}

	var removed []string
	for _, dir := range slices.Backward(dirs) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("sorter.RemoveEmptyDirs: %w", err)
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			return removed, fmt.Errorf("sorter.RemoveEmptyDirs: %w", err)
		}
		rel, _ := filepath.Rel(root, dir)
		removed = append(removed, rel)
	}
	return removed, nil
}
