package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mholt/archives"
)

// ErrOpenArchive marks an unreadable, corrupt, or unrecognized container.
// The orchestrator recovers from it per file; it is never fatal to a batch.
var ErrOpenArchive = errors.New("cannot open archive")

// supportedExtensions is the accepted container set for uploads
var supportedExtensions = map[string]struct{}{
	".zip": {},
	".rar": {},
	".tar": {},
	".7z":  {},
	".gz":  {},
	".bz2": {},
	".xz":  {},
	".lz4": {},
	".zst": {},
}

// compound suffixes resolve before the single-extension check
var compoundExtensions = []string{
	".tar.gz", ".tar.bz2", ".tar.xz", ".tar.lz4", ".tar.zst", ".tgz",
}

// IsSupportedName reports whether the file name carries a supported
// archive extension
func IsSupportedName(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range compoundExtensions {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	if i := strings.LastIndex(lower, "."); i >= 0 {
		_, ok := supportedExtensions[lower[i:]]
		return ok
	}
	return false
}

// Open extracts a compressed upload into an in-memory entry tree. The
// container format is identified from the name and leading bytes and
// extraction is delegated to the archives library; a bare compression
// stream (a lone .gz/.zst/... around a single file) yields a single-leaf
// tree. Failures wrap ErrOpenArchive.
func Open(ctx context.Context, name string, data []byte) (*Entry, error) {
	format, input, err := archives.Identify(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: identify %q: %v", ErrOpenArchive, name, err)
	}

	root := NewDir(name)

	switch f := format.(type) {
	case archives.Extraction:
		err = f.Extract(ctx, input, func(ctx context.Context, info archives.FileInfo) error {
			if info.IsDir() {
				root.EnsureDir(info.NameInArchive)
				return nil
			}
			file, err := info.Open()
			if err != nil {
				return fmt.Errorf("open %q: %w", info.NameInArchive, err)
			}
			defer file.Close()

			content, err := io.ReadAll(file)
			if err != nil {
				return fmt.Errorf("read %q: %w", info.NameInArchive, err)
			}
			root.AddFile(info.NameInArchive, content)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: extract %q: %v", ErrOpenArchive, name, err)
		}

	case archives.Compression:
		reader, err := f.OpenReader(input)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %q: %v", ErrOpenArchive, name, err)
		}
		defer reader.Close()

		content, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %q: %v", ErrOpenArchive, name, err)
		}
		root.AddFile(innerName(name), content)

	default:
		return nil, fmt.Errorf("%w: %q has no extractable format", ErrOpenArchive, name)
	}

	return root, nil
}

// innerName strips the compression extension from a bare stream name,
// so "scan.dcm.gz" extracts as "scan.dcm"
func innerName(name string) string {
	lower := strings.ToLower(name)
	if i := strings.LastIndex(lower, "."); i > 0 {
		if _, ok := supportedExtensions[lower[i:]]; ok {
			return name[:i]
		}
	}
	return name
}
