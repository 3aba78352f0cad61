package har

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/roach88/harq/internal/logging"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// ErrNoMatches is returned when a glob pattern matches no files.
var ErrNoMatches = errors.New("pattern matched no files")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// ParseError reports a document that could not be decoded as HAR.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse HAR: %v", e.Err)
	}
	return fmt.Sprintf("parse HAR %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse decodes a HAR document from r.
func Parse(r io.Reader) (*HAR, error) {
	var doc HAR
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// ParseBytes decodes a HAR document from data.
func ParseBytes(data []byte) (*HAR, error) {
	return Parse(bytes.NewReader(data))
}

// Loader reads HAR documents from files, globs, or stdin.
type Loader struct {
	logger *slog.Logger
	stdin  io.Reader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logging.Default(logger).With("component", "har") }
}

// WithStdin overrides the reader used for the "-" path.
func WithStdin(r io.Reader) LoaderOption {
	return func(l *Loader) { l.stdin = r }
}

// NewLoader creates a Loader. Without options it logs nothing and reads
// stdin from os.Stdin.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: logging.Discard(),
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the HAR document at path. A glob pattern loads every match and
// concatenates their entries in file-name order; the first match supplies
// the log metadata.
func (l *Loader) Load(path string) (*HAR, error) {
	if path == StdinPath {
		l.logger.Debug("reading HAR from stdin")
		return l.decode(l.stdin, "")
	}
	if !isPattern(path) {
		return l.loadFile(path)
	}

	matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%q: %w", path, ErrNoMatches)
	}
	sort.Strings(matches)
	l.logger.Debug("expanded glob", "pattern", path, "files", len(matches))

	var merged *HAR
	for _, m := range matches {
		doc, err := l.loadFile(m)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = doc
			continue
		}
		merged.Log.Entries = append(merged.Log.Entries, doc.Log.Entries...)
		merged.Log.Pages = append(merged.Log.Pages, doc.Log.Pages...)
	}
	return merged, nil
}

func (l *Loader) loadFile(path string) (*HAR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l.logger.Debug("loading HAR", "path", path)
	return l.decode(f, path)
}

// ReadBytes returns the document at path decompressed but not parsed.
// Glob patterns are not expanded.
func (l *Loader) ReadBytes(path string) ([]byte, error) {
	var r io.Reader = l.stdin
	if path != StdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		path = ""
	}

	src, closeFn, err := l.decompress(r, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return data, nil
}

func (l *Loader) decode(r io.Reader, path string) (*HAR, error) {
	src, closeFn, err := l.decompress(r, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	doc, err := Parse(src)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	l.logger.Debug("loaded HAR", "path", path, "entries", len(doc.Log.Entries))
	return doc, nil
}

// decompress wraps r in a decoder when the input is compressed. gzip and
// zstd are recognized by magic bytes, brotli by the .br extension.
func (l *Loader) decompress(r io.Reader, path string) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, &ParseError{Path: path, Err: err}
		}
		l.logger.Debug("detected gzip input", "path", path)
		return zr, func() { zr.Close() }, nil
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, nil, &ParseError{Path: path, Err: err}
		}
		l.logger.Debug("detected zstd input", "path", path)
		return dec, dec.Close, nil
	case strings.EqualFold(filepath.Ext(path), ".br"):
		l.logger.Debug("detected brotli input", "path", path)
		return brotli.NewReader(br), func() {}, nil
	}
	return br, func() {}, nil
}

func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
