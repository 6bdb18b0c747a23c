package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	qrgen "github.com/skip2/go-qrcode"
)

var (
	// ErrEncoding covers capacity overflow and invalid rendering options.
	ErrEncoding = errors.New("failed to encode QR code")
	// ErrDecoding is returned when an image does not contain a readable QR code.
	ErrDecoding = errors.New("failed to decode QR code")
)

// MaxImageSide caps the rendered PNG edge in pixels.
const MaxImageSide = 4096

// Options controls how a QR code is rendered.
type Options struct {
	// PixelSize is the edge length of one module in pixels.
	PixelSize int
	// Margin is the quiet zone width in modules.
	Margin     int
	Foreground color.Color
	Background color.Color
}

// DefaultOptions renders black modules of 8px on white with the standard 4-module quiet zone.
func DefaultOptions() Options {
	return Options{
		PixelSize:  8,
		Margin:     4,
		Foreground: color.Black,
		Background: color.White,
	}
}

func (o Options) validate() error {
	if o.PixelSize <= 0 {
		return fmt.Errorf("%w: pixel size must be positive, got %d", ErrEncoding, o.PixelSize)
	}
	if o.Margin < 0 {
		return fmt.Errorf("%w: margin must not be negative, got %d", ErrEncoding, o.Margin)
	}
	return nil
}

// Encode renders content as a PNG. Identical inputs always yield identical bytes.
func Encode(content string, opts Options) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrEncoding)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	fg, bg := opts.Foreground, opts.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}

	qr, err := qrgen.New(content, qrgen.Medium)
	if err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}
	qr.DisableBorder = true
	bitmap := qr.Bitmap()

	modules := len(bitmap) + 2*opts.Margin
	side := modules * opts.PixelSize
	if side > MaxImageSide {
		return nil, fmt.Errorf("%w: image side %dpx exceeds %dpx", ErrEncoding, side, MaxImageSide)
	}

	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})
	offset := opts.Margin * opts.PixelSize
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + x*opts.PixelSize
			y0 := offset + y*opts.PixelSize
			for dy := 0; dy < opts.PixelSize; dy++ {
				for dx := 0; dx < opts.PixelSize; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// Decode scans a PNG and returns the embedded text.
func Decode(pngData []byte) (string, error) {
	if len(pngData) == 0 {
		return "", ErrDecoding
	}

	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", errors.Join(ErrDecoding, err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", errors.Join(ErrDecoding, err)
	}

	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", errors.Join(ErrDecoding, err)
	}
	return result.GetText(), nil
}
