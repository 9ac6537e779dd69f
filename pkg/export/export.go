package export

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/model"
)

// Format is an output kind.
type Format string

const (
	FormatPNG      Format = "png"
	FormatSVG      Format = "svg"
	FormatMarkdown Format = "md"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatMarkdown}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Options configures Export.
type Options struct {
	Title   string
	Formats []Format
	Logger  *zap.Logger
}

// Export writes doc in every requested format next to base (base plus the
// format's extension). Formats render concurrently. It returns the written
// paths in format order.
func Export(ctx context.Context, doc *model.File, base string, opts Options) ([]string, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []Format{FormatPNG, FormatSVG}
	}
	if opts.Title == "" {
		opts.Title = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, model.Extension)

	var layout Layout
	for _, f := range opts.Formats {
		if f == FormatPNG || f == FormatSVG {
			m, err := canvas.NewFontMeasurer()
			if err != nil {
				return nil, err
			}
			layout = BuildLayout(doc, m, opts.Title)
			break
		}
	}

	paths := make([]string, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range opts.Formats {
		path := base + "." + string(f)
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			var err error
			switch f {
			case FormatPNG:
				err = RenderPNG(layout, &buf)
			case FormatSVG:
				err = RenderSVG(layout, &buf)
			case FormatMarkdown:
				buf.WriteString(GenerateMarkdown(doc, opts.Title))
			default:
				err = fmt.Errorf("unknown export format %q", f)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			if err := fileio.Write(path, buf.Bytes()); err != nil {
				return err
			}
			opts.Logger.Info("exported", zap.String("path", path), zap.Int("bytes", buf.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
