package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/spakin/netpbm"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/bmp"

	"github.com/shouni/go-robohash-kit/pkg/domain"
)

// Encode は img を format でエンコードしたバイト列を返します。
// datauri は PNG を base64 で埋め込んだ data URI 文字列になります。
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo は img を format でエンコードして w に書き込みます。
func EncodeTo(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case domain.FormatPNG, "":
		err = png.Encode(w, img)
	case domain.FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	case domain.FormatGIF:
		err = gif.Encode(w, img, nil)
	case domain.FormatBMP:
		err = bmp.Encode(w, img)
	case domain.FormatPPM:
		err = encodePPM(w, img)
	case domain.FormatDataURI:
		err = encodeDataURI(w, img)
	default:
		return fmt.Errorf("surface: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("surface: failed to encode %s: %w", format, err)
	}
	return nil
}

// encodePPM はバイナリ形式 (P6) の PPM を書き出します。アルファは捨て、RGB はそのまま残します。
func encodePPM(w io.Writer, img image.Image) error {
	return netpbm.Encode(w, Flatten(ToNRGBA(img)), &netpbm.EncodeOptions{
		Format:   netpbm.PPM,
		MaxValue: 255,
		Plain:    false,
	})
}

// encodeDataURI は PNG を base64 で埋め込んだ data URI を書き出します。
func encodeDataURI(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	_, err := dataurl.New(buf.Bytes(), domain.MimeType(domain.FormatPNG)).WriteTo(w)
	return err
}
