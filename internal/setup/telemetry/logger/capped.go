// Package logger provides log file writers for session logs.
package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CappedFile is a log file that keeps roughly its last maxLines lines. Lines
// are appended as they arrive and the file is compacted down to the most
// recent maxLines once twice that many lines were written.
type CappedFile struct {
	path     string
	maxLines int
	file     *os.File
	recent   [][]byte // Ring of the most recent lines
	next     int      // Ring write position
	written  int      // Lines appended since the last compaction
	mu       sync.Mutex
}

// OpenCappedFile opens or creates the log file at path. A non-positive
// maxLines disables compaction.
func OpenCappedFile(path string, maxLines int) (*CappedFile, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	c := &CappedFile{
		path:     path,
		maxLines: maxLines,
		file:     file,
	}
	if maxLines > 0 {
		c.recent = make([][]byte, 0, maxLines)
	}

	return c, nil
}

// Write implements io.Writer.
func (c *CappedFile) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.file.Write(p)
	if err != nil || c.maxLines <= 0 {
		return n, err
	}

	for line := range bytes.SplitSeq(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		c.remember(line)
	}

	if c.written >= c.maxLines*2 {
		if err := c.compact(); err != nil {
			return n, fmt.Errorf("failed to compact log file: %w", err)
		}
	}

	return n, nil
}

// Sync flushes the file to disk.
func (c *CappedFile) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.file.Sync()
}

// Close closes the file.
func (c *CappedFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.file.Close()
}

func (c *CappedFile) remember(line []byte) {
	stored := bytes.Clone(line)

	if len(c.recent) < c.maxLines {
		c.recent = append(c.recent, stored)
	} else {
		c.recent[c.next] = stored
	}

	c.next = (c.next + 1) % c.maxLines
	c.written++
}

// lines returns the remembered lines oldest first.
func (c *CappedFile) lines() [][]byte {
	if len(c.recent) < c.maxLines {
		return c.recent
	}

	ordered := make([][]byte, 0, len(c.recent))
	ordered = append(ordered, c.recent[c.next:]...)
	ordered = append(ordered, c.recent[:c.next]...)

	return ordered
}

// compact replaces the file with the remembered lines.
func (c *CappedFile) compact() error {
	temp, err := os.CreateTemp(filepath.Dir(c.path), "compact-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	var buf bytes.Buffer
	for _, line := range c.lines() {
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if _, err := temp.Write(buf.Bytes()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	c.file.Close()

	if err := os.Rename(tempPath, c.path); err != nil {
		return err
	}

	file, err := os.OpenFile(c.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	c.file = file
	c.written = len(c.recent)

	return nil
}
