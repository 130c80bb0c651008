package srs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdinConfirmer prompts on a terminal and reads a yes/no answer.
// Anything other than "y"/"yes" counts as a decline.
type StdinConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the message and waits for one line of input
func (c StdinConfirmer) Confirm(message string) bool {
	fmt.Fprintf(c.Out, "%s [y/N]: ", message)
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
