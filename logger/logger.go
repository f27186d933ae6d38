// Package logger is the central log. Lines are tagged, identical consecutive
// lines are folded, and the most recent entries are kept for display in the
// window.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const maxCentral = 256

type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := fmt.Sprintf("[%s] %s", e.Tag, e.Detail)
	if e.Repeated > 0 {
		s = fmt.Sprintf("%s (repeat x%d)", s, e.Repeated+1)
	}
	return s
}

type logger struct {
	mutex      sync.Mutex
	maxEntries int
	entries    []Entry
	echo       *log.Logger
}

var central = newLogger(maxCentral)

func newLogger(maxEntries int) *logger {
	return &logger{
		maxEntries: maxEntries,
		echo:       log.New(os.Stdout, "", log.LstdFlags),
	}
}

func (l *logger) log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", " ")

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = time.Now()
		return
	}

	e := Entry{Timestamp: time.Now(), Tag: tag, Detail: detail}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echo != nil {
		l.echo.Print(e.String())
	}
}

func (l *logger) tail(n int) []Entry {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.log(tag, detail)
}

func Logf(tag, format string, args ...any) {
	central.log(tag, fmt.Sprintf(format, args...))
}

// Tail returns up to n of the most recent entries, oldest first.
func Tail(n int) []Entry {
	return central.tail(n)
}

// SetEcho redirects the copy of every new entry. A nil writer silences it.
func SetEcho(w io.Writer) {
	central.mutex.Lock()
	defer central.mutex.Unlock()
	if w == nil {
		central.echo = nil
		return
	}
	central.echo = log.New(w, "", log.LstdFlags)
}

func Clear() {
	central.mutex.Lock()
	defer central.mutex.Unlock()
	central.entries = central.entries[:0]
}
