package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"go.uber.org/zap"
)

// FrameSource yields frames until it returns io.EOF.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
}

// Scanner pulls frames from a source until one carries a readable code.
type Scanner struct {
	source FrameSource
	decode func(image.Image) (string, error)
	log    *zap.Logger
}

func NewScanner(source FrameSource, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{source: source, decode: Decode, log: log}
}

// Scan returns the first decoded payload. It stops with ctx.Err() when ctx is
// cancelled and with ErrNoCode when the source runs out.
func (s *Scanner) Scan(ctx context.Context) (string, error) {
	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		img, err := s.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			s.log.Debug("scan source exhausted", zap.Int("frames", frames))
			return "", ErrNoCode
		}
		if err != nil {
			return "", err
		}
		frames++

		text, err := s.decode(img)
		if err == nil {
			s.log.Info("code scanned", zap.Int("frames", frames))
			return text, nil
		}
	}
}

// ImageSource serves already captured images, one per Next call.
type ImageSource struct {
	mu     sync.Mutex
	images []image.Image
}

func NewImageSource(images ...image.Image) *ImageSource {
	return &ImageSource{images: images}
}

// ImageSourceFromBytes decodes each encoded image (png or jpeg).
func ImageSourceFromBytes(data ...[]byte) (*ImageSource, error) {
	images := make([]image.Image, 0, len(data))
	for i, b := range data {
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return NewImageSource(images...), nil
}

func (s *ImageSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return nil, io.EOF
	}
	img := s.images[0]
	s.images = s.images[1:]
	return img, nil
}
