package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"portfolio_admin/internal/appErrors"
)

// Profile bounds the output of Prepare. An asset is re-encoded when it is
// larger than ReencodeOver bytes or exceeds the pixel bounds; otherwise the
// original bytes pass through untouched.
type Profile struct {
	Name         string
	MaxWidth     int
	MaxHeight    int
	Quality      int   // JPEG quality (1-100)
	ReencodeOver int64 // bytes
}

var (
	// ProfilePortfolioImage is used for portfolio gallery uploads
	ProfilePortfolioImage = Profile{Name: "portfolio_image", MaxWidth: 1600, MaxHeight: 1600, Quality: 80, ReencodeOver: 500_000}

	// ProfileIconImage is used for tech-stack icon uploads
	ProfileIconImage = Profile{Name: "icon_image", MaxWidth: 512, MaxHeight: 512, Quality: 85, ReencodeOver: 100_000}
)

// PreparedAsset is ready for storage: bounded content, a MIME type and a
// filename keeping the original basename and extension.
type PreparedAsset struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Processor handles image processing operations
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// Prepare decodes, bounds and re-encodes an upload according to the
// profile. Deterministic: identical input bytes and profile produce
// identical output bytes. Callers must not upload on error.
func (p *Processor) Prepare(filename string, reader io.Reader, profile Profile) (*PreparedAsset, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, appErrors.AssetProcessingError(fmt.Errorf("failed to read upload: %w", err))
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, appErrors.AssetProcessingError(fmt.Errorf("failed to decode image: %w", err))
	}

	bounds := img.Bounds()
	withinBounds := bounds.Dx() <= profile.MaxWidth && bounds.Dy() <= profile.MaxHeight
	if withinBounds && int64(len(raw)) <= profile.ReencodeOver {
		return &PreparedAsset{
			Content:     raw,
			ContentType: contentTypeFor(format, filename),
			Filename:    filename,
		}, nil
	}

	resized := img
	if !withinBounds {
		resized = resize(img, profile.MaxWidth, profile.MaxHeight)
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: profile.Quality}); err != nil {
			return nil, appErrors.AssetProcessingError(fmt.Errorf("failed to encode JPEG: %w", err))
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, appErrors.AssetProcessingError(fmt.Errorf("failed to encode PNG: %w", err))
		}
	default:
		return nil, appErrors.AssetProcessingError(fmt.Errorf("unsupported image format: %s", format))
	}

	return &PreparedAsset{
		Content:     buf.Bytes(),
		ContentType: contentTypeFor(format, filename),
		Filename:    filename,
	}, nil
}

// resize shrinks an image to fit the bounds maintaining aspect ratio
func resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

func contentTypeFor(format, filename string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// GetImageDimensions returns the dimensions of an image
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// IsValidImage checks if the reader contains a valid image
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.Decode(reader)
	return err == nil
}
