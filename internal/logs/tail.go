package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wheelwright/internal/config"
)

// FileName is the log file written by every wheelwright process.
const FileName = "wheelwright.log"

// Path returns the location of the shared log file for the given config.
func Path(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, FileName)
}

// TailResult carries the lines read plus the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Last returns up to limit lines from the end of the log file. A missing
// file yields an empty result rather than an error. Only newline-terminated
// lines count; a partial final line stays unread so a later Follow picks it
// up whole.
func Last(path string, limit int) (TailResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var ring []string
	if limit > 0 {
		ring = make([]string, limit)
	}
	count, idx := 0, 0
	consumed, err := scanCompleteLines(file, func(line string) {
		if limit <= 0 {
			return
		}
		ring[idx] = line
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return TailResult{}, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return TailResult{Lines: lines, Offset: consumed}, nil
}

// Follow polls the log file for lines appended after offset, invoking emit
// for each batch until ctx is cancelled. Truncation (offset beyond the file
// size) restarts from the beginning.
func Follow(ctx context.Context, path string, offset int64, emit func([]string)) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		result, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		if len(result.Lines) > 0 {
			emit(result.Lines)
		}
		offset = result.Offset

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64) (TailResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return TailResult{}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	consumed, err := scanCompleteLines(file, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return TailResult{}, fmt.Errorf("read log file: %w", err)
	}
	return TailResult{Lines: lines, Offset: offset + consumed}, nil
}

// scanCompleteLines invokes fn for every newline-terminated line in r, with
// the terminator stripped, and returns the number of bytes consumed. Trailing
// bytes without a newline are not counted: a line still being written must
// not be split across reads.
func scanCompleteLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, err
		}
		consumed += int64(len(line))
		fn(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
	}
}
