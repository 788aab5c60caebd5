package uploads

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	snapWidth  = 286
	snapHeight = 336
)

// maxSnapPixels bounds the decoded size of a thumbnail source. Larger images
// keep their original URL as snap.
var maxSnapPixels = 40_000_000

// ErrNotDecodable means the bytes are not an image format the server can scale.
var ErrNotDecodable = errors.New("image format not decodable")

// Thumbnail fits the image in data into 286x336, keeping its aspect ratio,
// and returns the encoded thumbnail with its content type. Images already
// inside the box are re-encoded at their own size.
func Thumbnail(data []byte) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", ErrNotDecodable
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxSnapPixels) {
		return nil, "", ErrNotDecodable
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrNotDecodable
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), snapWidth, snapHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
		return buf.Bytes(), "image/jpeg", err
	case "gif":
		err = gif.Encode(&buf, dst, nil)
		return buf.Bytes(), "image/gif", err
	default:
		// webp has no encoder here; its snaps are stored as png.
		err = png.Encode(&buf, dst)
		return buf.Bytes(), "image/png", err
	}
}

func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	// scale by the tighter side
	if w*maxH > h*maxW {
		nh := h * maxW / w
		return maxW, max(nh, 1)
	}
	nw := w * maxH / h
	return max(nw, 1), maxH
}
