// Package console is the interactive surface of fontstory: a line editor
// where plain lines are appended to the document text and lines starting
// with ':' are commands.
package console

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/fonts"
	"github.com/ByLCY/fontstory/story"
)

// Console drives a story.Session from typed commands.
type Console struct {
	session *story.Session
	repl    *readline.Instance
}

// New creates a console for session.
func New(session *story.Session) *Console {
	return &Console{session: session}
}

var commands = []string{
	":font", ":load", ":color", ":size", ":scale", ":fonts", ":clear",
	":show", ":export", ":open", ":copy", ":help", ":quit",
}

func (c *Console) completer() *readline.PrefixCompleter {
	fontNames := func(string) []string {
		names := c.session.Registry().Names()
		for _, p := range fonts.Presets() {
			names = append(names, p.Name)
		}
		return names
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		if cmd == ":font" {
			items = append(items, readline.PcItem(cmd, readline.PcItemDynamic(fontNames)))
			continue
		}
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

// REPL starts interactive mode and returns when the user quits or input ends.
func (c *Console) REPL(ctx context.Context) error {
	repl, err := readline.NewEx(&readline.Config{
		Prompt:          "fontstory > ",
		AutoComplete:    c.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer repl.Close()
	c.repl = repl

	pterm.Info.Println("Type text lines; commands start with ':' (:help). Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF
			break
		}
		quit, err := c.Execute(ctx, line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit || ctx.Err() != nil {
			break
		}
	}
	pterm.Info.Println("Good bye!")
	return nil
}

// Execute 处理一行输入。普通行追加到文本（以 "\:" 开头的行去掉反斜杠后追加），
// 以 ':' 开头的行作为命令执行。
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(line, `\:`) {
		c.session.AppendLine(line[1:])
		return false, nil
	}
	if !strings.HasPrefix(line, ":") {
		c.session.AppendLine(line)
		return false, nil
	}
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help":
		pterm.Info.Println(helpText)
	case ":font":
		if arg == "" {
			pterm.Info.Printfln("current font: %s", c.session.Font())
			return false, nil
		}
		c.session.SelectFont(arg)
		pterm.Info.Printfln("font set to %s", arg)
	case ":load":
		if arg == "" {
			return false, fmt.Errorf("用法：:load <字体文件>")
		}
		c.load(ctx, arg)
	case ":color":
		if err := c.session.SetColor(arg); err != nil {
			return false, err
		}
		pterm.Info.Printfln("color set to %s", c.session.Color().Hex())
	case ":size":
		px, err := strconv.ParseFloat(strings.TrimSuffix(arg, "px"), 64)
		if err != nil {
			return false, fmt.Errorf("无效的字号 %q", arg)
		}
		return false, c.session.SetFontSize(px)
	case ":scale":
		x, err := strconv.ParseFloat(strings.TrimSuffix(arg, "x"), 64)
		if err != nil {
			return false, fmt.Errorf("无效的像素密度 %q", arg)
		}
		return false, c.session.SetScale(x)
	case ":fonts":
		c.listFonts(arg == "system")
	case ":clear":
		c.session.SetText("")
	case ":show":
		return false, c.show()
	case ":export", ":download":
		path, err := c.session.Export(ctx, export.ModeDownload, arg)
		if err != nil {
			return false, err
		}
		pterm.Success.Printfln("saved %s", path)
	case ":open":
		if _, err := c.session.Export(ctx, export.ModeOpen, ""); err != nil {
			return false, err
		}
	case ":copy":
		_, err := c.session.Export(ctx, export.ModeClipboard, "")
		return false, err
	default:
		return false, fmt.Errorf("未知命令 %s（:help 查看帮助）", cmd)
	}
	return false, nil
}

// load uploads a font file in the background; the session switches to it
// once it is registered.
func (c *Console) load(ctx context.Context, path string) {
	pending := c.session.UploadFontFile(path)
	go func() {
		name, err := pending.Await(ctx)
		if err != nil {
			pterm.Warning.Printfln("font %s not loaded, keeping %s", path, c.session.Font())
			return
		}
		pterm.Success.Printfln("font %s loaded as %s", path, name)
		if c.repl != nil {
			c.repl.Refresh()
		}
	}()
}

// listFonts prints presets and uploads; with system set, also the font
// files found on this machine.
func (c *Console) listFonts(system bool) {
	items := []pterm.BulletListItem{}
	for _, p := range fonts.Presets() {
		text := p.Name
		if p.Monospace {
			text += " (mono)"
		}
		items = append(items, pterm.BulletListItem{Level: 0, Text: text})
	}
	for _, name := range c.session.Registry().Names() {
		if info, ok := c.session.Registry().Uploaded(name); ok {
			items = append(items, pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("%s (uploaded, %s %q)", name, info.Format, info.Family)})
		}
	}
	sys := systemFontNames()
	if !system {
		items = append(items, pterm.BulletListItem{Level: 0, Text: fmt.Sprintf("%d system fonts (:fonts system)", len(sys))})
	} else {
		for _, name := range sys {
			items = append(items, pterm.BulletListItem{Level: 1, Text: name})
		}
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

// systemFontNames returns the sorted, de-duplicated base names of the system
// font files, usable as :font arguments.
func systemFontNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, path := range fonts.SystemFonts() {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Console) show() error {
	preview, err := c.session.Preview()
	if err != nil {
		return err
	}
	full, err := c.session.Layout()
	if err != nil {
		return err
	}
	conf := c.session.Config()
	data := pterm.TableData{
		{"font", "color", "lines", "preview", "export"},
		{
			c.session.Font(),
			full.Color.Hex(),
			strconv.Itoa(len(full.Lines)),
			fmt.Sprintf("%.0fx%.0f @%gpx", preview.Width, preview.Height, conf.PreviewFontSize),
			fmt.Sprintf("%.0fx%.0f @%gpx ×%g", full.Width, full.Height, full.FontSize, full.Scale),
		},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	for i, l := range full.Lines {
		pterm.Printfln("%3d │ %s", i+1, l.Content)
	}
	return nil
}

const helpText = `plain lines are appended to the text (start a line with \: to type a literal ':')
  :font <name>     select a preset, system or uploaded font
  :load <path>     upload a font file (.ttf .otf .woff .woff2)
  :color <hex>     set the text color (#rgb, #rrggbb, #rrggbbaa or a name)
  :size <px>       set the export font size
  :scale <x>       set the pixel density
  :fonts           list available fonts
  :clear           clear the text
  :show            show the current state and a preview measurement
  :export [name]   save the PNG
  :open            print the PNG as a data URL
  :copy            copy the PNG to the clipboard
  :quit            leave`
