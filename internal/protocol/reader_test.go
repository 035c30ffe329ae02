package protocol

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("SET a 1\nGET a\r\n\nLIST"))

	want := []string{"SET a 1", "GET a", "", "LIST"}
	for i, w := range want {
		got, err := ReadLine(r, 0)
		if err != nil {
			t.Fatalf("line %d: error = %v", i, err)
		}
		if got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}

	if _, err := ReadLine(r, 0); !errors.Is(err, io.EOF) {
		t.Errorf("after last line error = %v, want io.EOF", err)
	}
}

func TestReadLine_Limit(t *testing.T) {
	long := strings.Repeat("x", 100)
	r := bufio.NewReader(strings.NewReader(long + "\n"))
	if _, err := ReadLine(r, 50); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("error = %v, want ErrLimitExceeded", err)
	}

	// Exactly at the limit is fine, with either terminator.
	r = bufio.NewReader(strings.NewReader(long + "\r\n" + long + "\n"))
	for i := 0; i < 2; i++ {
		got, err := ReadLine(r, 100)
		if err != nil || got != long {
			t.Errorf("ReadLine #%d = %d bytes, %v", i, len(got), err)
		}
	}
}

func TestReadLine_LongerThanBuffer(t *testing.T) {
	long := strings.Repeat("v", 10000)
	r := bufio.NewReaderSize(strings.NewReader("SET k "+long+"\n"), 16)
	got, err := ReadLine(r, 0)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got != "SET k "+long {
		t.Errorf("got %d bytes, want %d", len(got), len(long)+6)
	}
}
