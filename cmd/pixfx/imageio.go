package main

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/pixfx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// readRGBA decodes the image at path and returns it as a zero-origin RGBA image.
func readRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	pixfx.Logger().Debug("decoded", "path", path, "format", format, "width", b.Dx(), "height", b.Dy())
	return dst, nil
}

// writeImage encodes img to path choosing the encoder from the file extension.
// Unsupported extensions are rejected before path is created.
func writeImage(path string, img image.Image) (err error) {
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = png.Encode
	case ".jpg", ".jpeg":
		encode = func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 92}) }
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(f, img)
}
