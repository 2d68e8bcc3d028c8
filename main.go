package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/ByLCY/fontstory/config"
	"github.com/ByLCY/fontstory/console"
	"github.com/ByLCY/fontstory/dsl"
	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/fontset"
	"github.com/ByLCY/fontstory/story"
)

// tracer traces with key 'fontstory.session'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.session")
}

var tracerKeys = []string{
	"fontstory.fonts", "fontstory.layout", "fontstory.render",
	"fontstory.export", "fontstory.session",
}

// options 汇总命令行参数。
type options struct {
	text        string
	textFile    string
	storyFile   string
	fontFile    string
	mode        string
	debugPath   string
	interactive bool
}

func main() {
	initDisplay()

	text := flag.String("text", "", "要渲染的文本（\\n 换行）")
	textFile := flag.String("text-file", "", "从文件读取文本")
	storyFile := flag.String("in", "", "故事文件路径（.fst）")
	font := flag.String("font", "", "字体名称（预设 / 系统字体）")
	fontFile := flag.String("font-file", "", "上传的字体文件（.ttf .otf .woff .woff2）")
	color := flag.String("color", "", "文字颜色，如 #ff8800")
	size := flag.String("size", "", "导出字号（px）")
	scale := flag.String("scale", "", "像素密度")
	mode := flag.String("mode", "download", "导出方式 [download|open|clipboard]")
	out := flag.String("out", "", "下载目录")
	name := flag.String("name", "", "下载文件名")
	copyURL := flag.Bool("copy-url", false, "open 模式下同时复制 data URL")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	interactive := flag.Bool("i", false, "交互模式")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range tracerKeys {
		conf["trace."+key] = *tlevel
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// flags given explicitly override the defaults
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "font":
			conf[config.KeyFont] = *font
		case "color":
			conf[config.KeyColor] = *color
		case "size":
			conf[config.KeyFontSize] = *size
		case "scale":
			conf[config.KeyScale] = *scale
		case "out":
			conf[config.KeyOutputDir] = *out
		case "name":
			conf[config.KeyFileName] = *name
		case "copy-url":
			conf[config.KeyCopyURL] = *copyURL
		}
	})
	settings, err := config.FromConfiguration(conf)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	opts := options{
		text:        *text,
		textFile:    *textFile,
		storyFile:   *storyFile,
		fontFile:    *fontFile,
		mode:        *mode,
		debugPath:   *debug,
		interactive: *interactive,
	}
	if err := run(ctx, settings, opts); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// run 串联输入、字体加载、测量渲染与导出。没有文本来源或指定 -i 时进入交互模式。
func run(ctx context.Context, conf config.Config, opts options, sessOpts ...story.Option) error {
	if opts.storyFile != "" {
		return playStories(ctx, conf, opts, sessOpts...)
	}
	sess, err := story.New(conf, sessOpts...)
	if err != nil {
		return err
	}
	if opts.fontFile != "" {
		if _, err := sess.UploadFontFile(opts.fontFile).Await(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			pterm.Warning.Printfln("字体文件 %s 未加载，继续使用 %s", opts.fontFile, sess.Font())
		}
	}
	switch {
	case opts.textFile != "":
		data, err := os.ReadFile(opts.textFile)
		if err != nil {
			return fmt.Errorf("读取文本文件失败: %w", err)
		}
		sess.SetText(string(data))
	case opts.text != "":
		sess.SetText(unescapeText(opts.text))
	default:
		opts.interactive = true
	}
	if opts.interactive {
		return console.New(sess).REPL(ctx)
	}
	return exportOnce(ctx, sess, opts)
}

var textEscapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n")

// unescapeText expands \n to a line break and \\ to a backslash, so that
// -text can carry several lines on one command line.
func unescapeText(s string) string {
	return textEscapes.Replace(s)
}

func exportOnce(ctx context.Context, sess *story.Session, opts options) error {
	mode, err := export.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.debugPath != "" {
		if err := sess.WriteDebug(opts.debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	result, err := sess.Export(ctx, mode, "")
	if err != nil {
		return fmt.Errorf("导出失败: %w", err)
	}
	if mode == export.ModeDownload {
		pterm.Success.Printfln("已生成图片：%s", result)
	}
	return nil
}

// playStories renders every story of a story file. Stories share one font
// registry; each starts from the configured defaults.
func playStories(ctx context.Context, conf config.Config, opts options, sessOpts ...story.Option) error {
	file, err := os.Open(opts.storyFile)
	if err != nil {
		return fmt.Errorf("无法打开故事文件 %s: %w", opts.storyFile, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(opts.storyFile, file)
	if err != nil {
		return fmt.Errorf("解析故事文件失败: %w", err)
	}
	baseDir := filepath.Dir(opts.storyFile)
	registry := fontset.NewRegistry()
	for i, st := range doc.Stories {
		sess, err := story.New(conf, append([]story.Option{story.WithRegistry(registry)}, sessOpts...)...)
		if err != nil {
			return err
		}
		if err := sess.Apply(ctx, st, baseDir); err != nil {
			return fmt.Errorf("故事 %q: %w", st.Name, err)
		}
		if opts.debugPath != "" {
			if err := sess.WriteDebug(debugPathFor(opts.debugPath, i, len(doc.Stories))); err != nil {
				return fmt.Errorf("输出调试 JSON 失败: %w", err)
			}
		}
		mode, name, err := story.Target(st)
		if err != nil {
			return err
		}
		result, err := sess.Export(ctx, mode, name)
		if err != nil {
			return fmt.Errorf("故事 %q 导出失败: %w", st.Name, err)
		}
		tracer().Infof("story %q exported (%s)", st.Name, mode)
		if mode == export.ModeDownload {
			pterm.Success.Printfln("已生成图片：%s", result)
		}
	}
	return nil
}

func debugPathFor(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", path[:len(path)-len(ext)], i+1, ext)
}
