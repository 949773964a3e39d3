package view

import (
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard writes text to the system clipboard. Initialization happens on
// first use; a failed init is reported on every write.
type Clipboard struct {
	once sync.Once
	err  error
}

func (c *Clipboard) WriteText(text string) error {
	c.once.Do(func() { c.err = clipboard.Init() })
	if c.err != nil {
		return c.err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
