package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/session"
)

// PDF writes the image as a single page PDF sized to the image, one point
// per pixel. Transparency is kept through the PNG alpha channel.
type PDF struct {
	Path     string
	Notifier *notify.Notifier
}

func (p *PDF) Export(ctx context.Context, r session.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Path == "" {
		return errors.New("pdf export: no output path")
	}
	if r.Image == nil {
		return errors.New("pdf export: no image")
	}
	size := r.Image.Bounds().Size()
	w, h := float64(size.X), float64(size.Y)
	// Size is already width by height; "L" would swap it.
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("retouch", true)
	doc.SetTitle(r.Ref.Processed, true)
	doc.SetSubject(r.ID, true)
	doc.AddPage()

	name := "retouch-" + r.ID
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(r.PNG))
	doc.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	if err := doc.OutputFileAndClose(p.Path); err != nil {
		return fmt.Errorf("write pdf %s: %w", p.Path, err)
	}
	log.Printf("wrote %s", p.Path)
	p.Notifier.PDF(p.Path)
	return nil
}
