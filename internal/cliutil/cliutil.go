package cliutil

import "golang.org/x/term"

// IsTty reports whether fd refers to a terminal. Used to decide if
// stdin can serve as input when no file arguments were given.
func IsTty(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
