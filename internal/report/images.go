package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// photoPixelWidth is the width photos are rasterized to before embedding.
const photoPixelWidth = 1200

type raster struct {
	data   []byte
	kind   ImageKind
	width  int
	height int
}

// aspectHeight returns the height matching width for the raster's aspect ratio.
func (r raster) aspectHeight(width float64) float64 {
	return width * float64(r.height) / float64(r.width)
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if webpImg, webpErr := webp.Decode(bytes.NewReader(data)); webpErr == nil {
		return webpImg, nil
	}
	return nil, fmt.Errorf("decode image: %w", err)
}

// rasterizePhoto scales the photo to photoPixelWidth and re-encodes it as JPEG.
func rasterizePhoto(data []byte) (raster, error) {
	src, err := decodeImage(data)
	if err != nil {
		return raster{}, err
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return raster{}, errors.New("image has no pixels")
	}
	height := b.Dy() * photoPixelWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, photoPixelWidth, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return raster{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return raster{data: buf.Bytes(), kind: KindJPEG, width: photoPixelWidth, height: height}, nil
}

// rasterizeSignature accepts an image data URL or bare base64 and returns an
// 8-bit PNG keeping transparency.
func rasterizeSignature(value string) (raster, error) {
	data, err := decodeDataURL(value)
	if err != nil {
		return raster{}, err
	}
	src, err := decodeImage(data)
	if err != nil {
		return raster{}, err
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return raster{}, errors.New("image has no pixels")
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return raster{}, fmt.Errorf("encode png: %w", err)
	}
	return raster{data: buf.Bytes(), kind: KindPNG, width: b.Dx(), height: b.Dy()}, nil
}

func decodeDataURL(value string) ([]byte, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, errors.New("empty data url")
	}
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		comma := strings.Index(raw, ",")
		if comma < 0 {
			return nil, errors.New("invalid data url payload")
		}
		meta := raw[len("data:"):comma]
		if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
			return nil, errors.New("data url must be base64")
		}
		if !strings.HasPrefix(strings.ToLower(meta), "image/") {
			return nil, fmt.Errorf("unsupported data url type %q", meta)
		}
		payload = raw[comma+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return decoded, nil
}
