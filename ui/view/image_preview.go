package view

import (
	"image"
	"log/slog"

	"github.com/soocke/sawbot-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	previewW = 220
	previewH = 160
)

// ImagePreview shows a thumbnail of the picture to draw.
type ImagePreview struct {
	logger *slog.Logger
	label  *LabelWidget
	photo  *Img
}

// NewImagePreview grids the preview label into parent.
func NewImagePreview(parent *FrameWidget, row, col int, logger *slog.Logger) *ImagePreview {
	v := &ImagePreview{logger: logger}
	v.photo = NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, previewW, previewH)))))
	v.label = Label(Image(v.photo), Borderwidth(1), Relief("sunken"))
	Grid(v.label, In(parent), Row(row), Column(col), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return v
}

// Show replaces the thumbnail with the picture at path.
func (v *ImagePreview) Show(path string) {
	if v == nil || v.label == nil {
		return
	}
	data, err := images.Thumbnail(path, previewW, previewH)
	if err != nil {
		if v.logger != nil {
			v.logger.Warn("preview failed", "path", path, "error", err)
		}
		return
	}
	// Replace the previous photo to avoid retaining obsolete pixel buffers.
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(data))
	v.label.Configure(Image(v.photo))
}
