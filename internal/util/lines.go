package util

import (
	"bufio"
	"context"
	"io"

	"github.com/optable/hashtable/pkg/log"
)

// Count counts the number of lines in r
func Count(r io.Reader) (int64, error) {
	var n int64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}

	return n, nil
}

// SafeReadLine blocks until a whole line can be read or r returns an
// error. The trailing \n, and \r before it, are stripped.
func SafeReadLine(r *bufio.Reader) (line string, err error) {
	line, err = r.ReadString('\n')
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return
}

// Exhaust reads at most n keys, one per line, from r. Empty lines are
// skipped. The channel is closed at the end of r or once ctx is done;
// read errors are logged with the logger of ctx.
func Exhaust(ctx context.Context, n int64, r io.Reader) <-chan string {
	var keys = make(chan string)
	src := bufio.NewReader(r)
	logger := log.GetLoggerFromContextWithName(ctx, "util")
	go func() {
		defer close(keys)
		for i := int64(0); i < n; {
			key, err := SafeReadLine(src)
			if len(key) != 0 {
				if ctx.Err() != nil {
					return
				}
				select {
				case keys <- key:
					i++
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					logger.Error(err, "error reading keys")
				}
				return
			}
		}
	}()

	return keys
}
