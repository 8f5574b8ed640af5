package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"golang.org/x/image/draw"
)

// thumbnailSize is the bounding box for generated thumbnails. Item photos
// only ever render as grid cells, so a modest size keeps storage small.
const thumbnailSize = 512

// Processor stores item photos alongside a resized thumbnail and a
// BlurHash placeholder.
type Processor struct {
	originals  *Storage
	thumbnails *Storage
	logger     *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(originals, thumbnails *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		originals:  originals,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// Process stores the original photo for an item, writes a thumbnail, and
// returns the BlurHash placeholder string.
func (p *Processor) Process(itemID string, imgData []byte) (string, error) {
	if err := p.originals.Save(itemID, imgData); err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	thumb := resizeToFit(img, thumbnailSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := p.thumbnails.Save(itemID, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	hash, err := ComputeBlurHash(thumb)
	if err != nil {
		return "", fmt.Errorf("compute blurhash: %w", err)
	}

	p.logger.Debug("processed item photo",
		"item_id", itemID,
		"size", len(imgData),
		"thumbnail_size", buf.Len())

	return hash, nil
}

// Remove deletes both the original and thumbnail for an item.
func (p *Processor) Remove(itemID string) error {
	if err := p.originals.Delete(itemID); err != nil {
		return err
	}
	return p.thumbnails.Delete(itemID)
}

// resizeToFit scales img down so both dimensions fit within maxDim,
// preserving aspect ratio. Images already within bounds pass through.
func resizeToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxDim && srcHeight <= maxDim {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = maxDim
		dstHeight = max((srcHeight*maxDim)/srcWidth, 1)
	} else {
		dstHeight = maxDim
		dstWidth = max((srcWidth*maxDim)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
