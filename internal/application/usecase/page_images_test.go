package usecase_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/domain/entity"
	repomocks "github.com/bnema/tabshell/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeStoredPNG(t *testing.T, dataURL string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestSavePageImagesUseCase_SaveThumbnail_ScalesWideCapture(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	var stored string
	sitedata.EXPECT().Set(mock.Anything, "https://example.com/", entity.SitedataScreenshot, mock.Anything).
		Run(func(_ context.Context, _ string, _ entity.SitedataKey, value string) { stored = value }).
		Return(nil)

	uc := usecase.NewSavePageImagesUseCase(sitedata)
	require.NoError(t, uc.SaveThumbnail(testContext(), "https://example.com/", encodeTestPNG(t, 1000, 500)))

	img := decodeStoredPNG(t, stored)
	assert.Equal(t, usecase.ThumbnailMaxWidth, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestSavePageImagesUseCase_SaveThumbnail_RejectsPortrait(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	uc := usecase.NewSavePageImagesUseCase(sitedata)

	err := uc.SaveThumbnail(testContext(), "https://example.com/", encodeTestPNG(t, 300, 600))
	assert.ErrorIs(t, err, usecase.ErrUnusableImage)
}

func TestSavePageImagesUseCase_SaveThumbnail_RejectsGarbage(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	uc := usecase.NewSavePageImagesUseCase(sitedata)

	assert.Error(t, uc.SaveThumbnail(testContext(), "https://example.com/", []byte("not a png")))
}

func TestSavePageImagesUseCase_SaveFavicon_NormalizesRaster(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	var stored string
	sitedata.EXPECT().Set(mock.Anything, "https://example.com/", entity.SitedataFavicon, mock.Anything).
		Run(func(_ context.Context, _ string, _ entity.SitedataKey, value string) { stored = value }).
		Return(nil)

	uc := usecase.NewSavePageImagesUseCase(sitedata)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t, 64, 48))
	require.NoError(t, uc.SaveFavicon(testContext(), "https://example.com/", dataURL))

	img := decodeStoredPNG(t, stored)
	assert.Equal(t, usecase.FaviconSize, img.Bounds().Dx())
	assert.Equal(t, usecase.FaviconSize, img.Bounds().Dy())
}

func TestSavePageImagesUseCase_SaveFavicon_KeepsVectorAsIs(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	svg := "data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg'/>"
	sitedata.EXPECT().Set(mock.Anything, "https://example.com/", entity.SitedataFavicon, svg).Return(nil)

	uc := usecase.NewSavePageImagesUseCase(sitedata)
	require.NoError(t, uc.SaveFavicon(testContext(), "https://example.com/", svg))
}

func TestSavePageImagesUseCase_SaveFavicon_RejectsRemoteURL(t *testing.T) {
	sitedata := repomocks.NewMockSitedataRepository(t)
	uc := usecase.NewSavePageImagesUseCase(sitedata)

	assert.Error(t, uc.SaveFavicon(testContext(), "https://example.com/", "https://example.com/favicon.ico"))
}
