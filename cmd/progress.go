package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/moffa90/go-ryflash/flash"
)

// progressBar renders flash.Progress updates. On a terminal it redraws a bar
// in place; otherwise it prints one line per finished operation.
type progressBar struct {
	out   io.Writer
	tty   bool
	width int
	last  string
}

func newProgressBar() *progressBar {
	fd := int(os.Stdout.Fd())
	pb := &progressBar{out: os.Stdout, tty: term.IsTerminal(fd), width: 40}
	if pb.tty {
		if w, _, err := term.GetSize(fd); err == nil && w > 80 {
			pb.width = min(w-40, 60)
		}
	}
	return pb
}

func (pb *progressBar) Update(p flash.Progress) {
	if !pb.tty {
		if p.Done == p.Total {
			fmt.Fprintf(pb.out, "%s: %d/%d in %s\n", p.Operation, p.Done, p.Total, p.ElapsedTime.Round(time.Millisecond))
		}
		return
	}

	if p.Operation != pb.last {
		if pb.last != "" {
			fmt.Fprintln(pb.out)
		}
		pb.last = p.Operation
	}

	filled := int(float64(pb.width) * p.Percentage / 100.0)
	if filled > pb.width {
		filled = pb.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.width-filled)
	fmt.Fprintf(pb.out, "\r\033[K%-10s [%s] %5.1f%% @ 0x%08X", p.Operation, bar, p.Percentage, p.Address)
}

// Finish ends the in-place line.
func (pb *progressBar) Finish() {
	if pb.tty && pb.last != "" {
		fmt.Fprintln(pb.out)
		pb.last = ""
	}
}
