package scan

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const LabelSize = 256

var ErrNoCode = errors.New("no QR code found")

// EncodePNG renders text as a QR label image.
func EncodePNG(text string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("empty label text")
	}
	return qrcode.Encode(text, qrcode.Medium, LabelSize)
}

// Decode returns the text of the first QR code in img.
func Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare image: %w", err)
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	})
	if err != nil {
		return "", ErrNoCode
	}
	return res.GetText(), nil
}
