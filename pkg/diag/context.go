package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text within a named source, typically one captured
// help output. It is used for errors that can be associated with a part of
// that text.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Markers around the culprit. Can be changed for testing.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// LineCol returns the 1-based line and column numbers of the start of the
// range. Columns count bytes.
func (c *Context) LineCol() (line, col int) {
	before := c.Source[:c.From]
	return strings.Count(before, "\n") + 1, len(lastLine(before)) + 1
}

// Describe returns the position of the range, in the form of name:line:col.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	line, col := c.LineCol()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the position of the range followed by the line it starts on,
// with the culprit highlighted. Only the first line of a multi-line culprit
// is shown.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	head := lastLine(c.Source[:c.From])
	culprit := firstLine(c.Source[c.From:c.To])
	tail := ""
	if c.From+len(culprit) == c.To {
		tail = firstLine(c.Source[c.To:])
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	return indent + c.Describe() + ": " +
		head + culpritStart + culprit + culpritEnd + tail
}

func (c *Context) checkPosition() error {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
