package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxLineBytes limits a request line (64KB) unless configured otherwise.
const DefaultMaxLineBytes = 64 * 1024

// ErrLimitExceeded is returned by ReadLine when a line is longer than allowed.
var ErrLimitExceeded = errors.New("protocol: limit exceeded")

// ReadLine reads one "\n"-terminated line from r, without the terminator.
//
// A final line that ends at EOF without a terminator is returned as a normal
// line; the next call then returns io.EOF. Lines longer than maxLen bytes
// (terminator excluded) fail with ErrLimitExceeded.
func ReadLine(r *bufio.Reader, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineBytes
	}

	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		buf = append(buf, frag...)
		// +2 leaves room for the "\r\n" terminator.
		if len(buf) > maxLen+2 {
			return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			break
		}
		return "", err
	}

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLen {
		return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
	}
	return string(buf), nil
}
