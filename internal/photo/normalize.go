package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"figuregen/internal/domain"
)

// Normalize decodes an uploaded photo and re-encodes it as an opaque PNG.
// Any alpha channel is flattened against a white base so the provider
// always receives a plain RGB raster. The transform is pure and
// idempotent: normalizing an already-normalized buffer returns
// byte-identical output.
func Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrDecode)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if looksLikeHEIF(raw) && !HEIFSupported {
			return nil, fmt.Errorf("%w: HEIC/HEIF uploads need the heif build", domain.ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", domain.ErrDecode, err)
	}
	return buf.Bytes(), nil
}

// AcceptedFormats lists the upload formats the current build can decode.
func AcceptedFormats() []string {
	formats := []string{"png", "jpg", "jpeg", "webp"}
	if HEIFSupported {
		formats = append(formats, "heic", "heif")
	}
	return formats
}

// looksLikeHEIF sniffs the ISO base media ftyp box for HEIF brands so a
// failed decode can be reported as unsupported rather than corrupt.
func looksLikeHEIF(raw []byte) bool {
	if len(raw) < 12 || !bytes.Equal(raw[4:8], []byte("ftyp")) {
		return false
	}
	switch string(raw[8:12]) {
	case "heic", "heix", "hevc", "heim", "heis", "mif1", "msf1":
		return true
	}
	return false
}
