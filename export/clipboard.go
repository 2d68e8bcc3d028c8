package export

import (
	"errors"
	"fmt"
	"sync"

	atotto "github.com/atotto/clipboard"
	xclipboard "golang.design/x/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard can be reached.
var ErrClipboardUnavailable = errors.New("export: clipboard unavailable")

// ImageWriter puts a PNG image on a clipboard.
type ImageWriter interface {
	WriteImage(png []byte) error
}

// TextWriter puts plain text on a clipboard.
type TextWriter interface {
	WriteText(text string) error
}

// SystemClipboard talks to the operating system clipboard. Images go through
// golang.design/x/clipboard (image/png items), text through atotto/clipboard.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

var (
	_ ImageWriter = (*SystemClipboard)(nil)
	_ TextWriter  = (*SystemClipboard)(nil)
)

// WriteImage writes data as an image/png clipboard item.
func (c *SystemClipboard) WriteImage(data []byte) error {
	c.once.Do(func() {
		if err := xclipboard.Init(); err != nil {
			c.initErr = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
		}
	})
	if c.initErr != nil {
		return c.initErr
	}
	if len(data) == 0 {
		return ErrEmptySurface
	}
	xclipboard.Write(xclipboard.FmtImage, data)
	return nil
}

// WriteText writes text to the clipboard.
func (c *SystemClipboard) WriteText(text string) error {
	if atotto.Unsupported {
		return ErrClipboardUnavailable
	}
	return atotto.WriteAll(text)
}
