package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// DefaultReadTimeout bounds every individual read from the log source.
const DefaultReadTimeout = 5 * time.Second

const maxLineBytes = 1024 * 1024

var (
	// ErrNotFound signals that the log file does not exist.
	ErrNotFound = errors.New("log file not found")
	// ErrEmpty signals that the log file has zero length.
	ErrEmpty = errors.New("log file is empty")
	// ErrReadTimeout signals that a single read exceeded the read timeout.
	ErrReadTimeout = errors.New("read timed out")
)

// Source is an opened log file ready for a single forward pass.
type Source struct {
	Path    string
	Size    int64
	file    *os.File
	timeout time.Duration
}

// OpenSource checks that path exists and is non-empty, then opens it.
func OpenSource(path string, timeout time.Duration) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	// Size is meaningless for pipes and devices, so only regular files fail fast.
	if info.Mode().IsRegular() && info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	return &Source{
		Path:    path,
		Size:    info.Size(),
		file:    fh,
		timeout: timeout,
	}, nil
}

// LineFunc receives one line without its terminator. Lines longer than the
// line limit are consumed to their end and delivered with tooLong set and no
// text.
type LineFunc func(line string, tooLong bool)

// Each calls fn for every line of the file, in order.
func (s *Source) Each(fn LineFunc) error {
	var r io.Reader = s.file
	if err := s.file.SetReadDeadline(time.Time{}); err == nil {
		r = &deadlineFile{file: s.file, timeout: s.timeout}
	}
	return scanLines(r, s.timeout, fn)
}

// Close releases the underlying file handle.
func (s *Source) Close() error {
	return s.file.Close()
}

// Scan calls fn for every line read from r, bounding each read by timeout.
func Scan(r io.Reader, timeout time.Duration, fn LineFunc) error {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return scanLines(r, timeout, fn)
}

func scanLines(r io.Reader, timeout time.Duration, fn LineFunc) error {
	if _, ok := r.(*deadlineFile); !ok {
		r = &timeoutReader{r: r, timeout: timeout}
	}

	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, tooLong, err := readLine(reader)
		switch {
		case err == nil:
			fn(string(line), tooLong)
		case errors.Is(err, io.EOF):
			if len(line) > 0 || tooLong {
				fn(string(line), tooLong)
			}
			return nil
		default:
			return err
		}
	}
}

// readLine returns the next line with "\n" or "\r\n" stripped. Once a line
// outgrows maxLineBytes the rest of it is discarded.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		return line, tooLong, err
	}
}

// deadlineFile refreshes the read deadline before each read. Used for pipes
// and other pollable files.
type deadlineFile struct {
	file    *os.File
	timeout time.Duration
}

func (d *deadlineFile) Read(p []byte) (int, error) {
	if err := d.file.SetReadDeadline(time.Now().Add(d.timeout)); err != nil {
		return 0, err
	}
	n, err := d.file.Read(p)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return n, fmt.Errorf("%w after %s", ErrReadTimeout, d.timeout)
	}
	return n, err
}

// timeoutReader races each read against a timer. A read that loses the race
// is abandoned and its goroutine exits once the underlying read returns.
type timeoutReader struct {
	r       io.Reader
	timeout time.Duration
	buf     []byte
}

type readResult struct {
	n   int
	err error
}

func (t *timeoutReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if cap(t.buf) < len(p) {
		t.buf = make([]byte, len(p))
	}
	buf := t.buf[:len(p)]

	done := make(chan readResult, 1)
	go func() {
		n, err := t.r.Read(buf)
		done <- readResult{n: n, err: err}
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		copy(p, buf[:res.n])
		return res.n, res.err
	case <-timer.C:
		// The abandoned read may still write into buf.
		t.buf = nil
		return 0, fmt.Errorf("%w after %s", ErrReadTimeout, t.timeout)
	}
}
