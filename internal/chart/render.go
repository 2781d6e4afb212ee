package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// WritePNG rasterizes the figure at dpi and writes it to w.
func (f *Figure) WritePNG(w io.Writer, dpi int) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))
	f.Plot.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Save writes the figure as a PNG file at path.
func (f *Figure) Save(path string, dpi int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer file.Close()

	if err := f.WritePNG(file, dpi); err != nil {
		return err
	}
	return file.Sync()
}

// Presenter shows a saved chart to the user.
type Presenter interface {
	Present(path string) error
}

// BrowserPresenter opens the image with the platform's default viewer.
type BrowserPresenter struct{}

func (BrowserPresenter) Present(path string) error {
	log.Debug().Str("component", "chart").Str("path", path).Msg("opening chart")
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open chart: %w", err)
	}
	return nil
}

// NoopPresenter discards presentation requests.
type NoopPresenter struct{}

func (NoopPresenter) Present(string) error { return nil }
