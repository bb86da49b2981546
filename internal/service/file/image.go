package file

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WEBP decoder
)

const (
	MaxImageSize   = 5 << 20
	MaxImageSide   = 512
	jpegQuality    = 85
	sniffLen       = 512
	outputMimeType = "image/jpeg"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// normalizeImage checks the payload is one of the allowed image types and
// re-encodes it as a JPEG no larger than MaxImageSide on either side.
func normalizeImage(data []byte) ([]byte, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !allowedImageTypes[http.DetectContentType(head)] {
		return nil, user.ErrUnsupportedImage
	}

	// Phone photos carry their rotation in EXIF; apply it before resizing.
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, user.ErrUnsupportedImage
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, downscale(src, MaxImageSide), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale shrinks src so its longer side is at most maxSide, keeping the
// aspect ratio. Smaller images are returned unchanged.
func downscale(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
