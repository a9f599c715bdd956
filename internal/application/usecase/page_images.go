package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // favicon formats
	_ "image/jpeg" // favicon formats
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	// ThumbnailMaxWidth bounds the width of stored page screenshots.
	ThumbnailMaxWidth = 800

	// FaviconSize is the square size favicons are normalized to.
	FaviconSize = 32

	pngDataURLPrefix = "data:image/png;base64,"
)

// ErrUnusableImage is returned for captures that are empty or taller than wide.
var ErrUnusableImage = errors.New("image not usable as a thumbnail")

// SavePageImagesUseCase stores page screenshots and favicons in sitedata.
type SavePageImagesUseCase struct {
	sitedata repository.SitedataRepository
}

// NewSavePageImagesUseCase creates the use case.
func NewSavePageImagesUseCase(sitedata repository.SitedataRepository) *SavePageImagesUseCase {
	return &SavePageImagesUseCase{sitedata: sitedata}
}

// SaveThumbnail scales a PNG capture down and stores it as the page screenshot.
// Captures that are empty or not wider than tall are rejected with ErrUnusableImage.
func (uc *SavePageImagesUseCase) SaveThumbnail(ctx context.Context, pageURL string, capture []byte) error {
	img, err := png.Decode(bytes.NewReader(capture))
	if err != nil {
		return fmt.Errorf("decode capture: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || b.Dx() <= b.Dy() {
		return ErrUnusableImage
	}

	data, err := encodePNGDataURL(scaleToWidth(img, ThumbnailMaxWidth))
	if err != nil {
		return err
	}

	if err := uc.sitedata.Set(ctx, pageURL, entity.SitedataScreenshot, data); err != nil {
		return fmt.Errorf("store screenshot: %w", err)
	}
	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(pageURL, logURLMaxLen)).
		Int("width", b.Dx()).
		Msg("page screenshot saved")
	return nil
}

// SaveFavicon stores a favicon data URL for the page. Raster images are
// normalized to a FaviconSize square PNG; anything else is stored as given.
func (uc *SavePageImagesUseCase) SaveFavicon(ctx context.Context, pageURL, dataURL string) error {
	if !strings.HasPrefix(dataURL, "data:") {
		return fmt.Errorf("favicon is not a data URL")
	}

	value := dataURL
	if raw, err := decodeDataURL(dataURL); err == nil {
		if img, _, err := image.Decode(bytes.NewReader(raw)); err == nil {
			if normalized, err := encodePNGDataURL(squareThumbnail(img, FaviconSize)); err == nil {
				value = normalized
			}
		}
	}

	if err := uc.sitedata.Set(ctx, pageURL, entity.SitedataFavicon, value); err != nil {
		return fmt.Errorf("store favicon: %w", err)
	}
	return nil
}

// scaleToWidth shrinks img to maxWidth keeping its aspect ratio.
// Images already narrow enough are returned unchanged.
func scaleToWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// squareThumbnail center-crops img to a square and scales it to size.
func squareThumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	crop := b
	switch {
	case w > h:
		offset := (w - h) / 2
		crop = image.Rect(b.Min.X+offset, b.Min.Y, b.Min.X+offset+h, b.Max.Y)
	case h > w:
		offset := (h - w) / 2
		crop = image.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Min.Y+offset+w)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)
	return dst
}

func encodePNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeDataURL(dataURL string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return []byte(payload), nil
	}
	return base64.StdEncoding.DecodeString(payload)
}
