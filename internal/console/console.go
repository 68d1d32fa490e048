// Package console writes the customer-facing transcript of a run.
package console

import (
	"fmt"
	"io"
)

// Fixed console lines.
const (
	Welcome    = "Welcome to the banking system."
	Terminated = "Session terminated."
	errPrefix  = "Error: "
)

// Console writes one message per line. The first write error sticks and is
// reported by Err; later writes are dropped.
type Console struct {
	w     io.Writer
	lines int
	err   error
}

// New returns a Console writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Println writes msg as one line.
func (c *Console) Println(msg string) {
	if c.err != nil {
		return
	}
	if _, err := io.WriteString(c.w, msg+"\n"); err != nil {
		c.err = fmt.Errorf("writing console: %w", err)
		return
	}
	c.lines++
}

// Printf formats and writes one line.
func (c *Console) Printf(format string, args ...any) {
	c.Println(fmt.Sprintf(format, args...))
}

// Error writes err's message with the error prefix.
func (c *Console) Error(err error) {
	c.Println(errPrefix + err.Error())
}

// Errorf formats an error line.
func (c *Console) Errorf(format string, args ...any) {
	c.Println(errPrefix + fmt.Sprintf(format, args...))
}

// Echo repeats a prompted input back, e.g. "Enter session type: admin".
func (c *Console) Echo(prompt, value string) {
	c.Printf("Enter %s: %s", prompt, value)
}

// Lines returns how many lines were written.
func (c *Console) Lines() int {
	return c.lines
}

// Err returns the first write error.
func (c *Console) Err() error {
	return c.err
}
