// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

// ManageZoomUseCase handles per-host zoom level operations.
type ManageZoomUseCase struct {
	zoomRepo    repository.ZoomRepository
	defaultZoom float64
}

// NewManageZoomUseCase creates a new zoom management use case.
// defaultZoom is the zoom level to use when resetting (typically from config).
func NewManageZoomUseCase(zoomRepo repository.ZoomRepository, defaultZoom float64) *ManageZoomUseCase {
	if defaultZoom <= 0 {
		defaultZoom = entity.ZoomDefault
	}
	return &ManageZoomUseCase{
		zoomRepo:    zoomRepo,
		defaultZoom: defaultZoom,
	}
}

// DefaultZoom returns the configured default zoom level.
func (uc *ManageZoomUseCase) DefaultZoom() float64 {
	return uc.defaultZoom
}

// GetZoom retrieves the zoom level for a host.
// Returns the configured default zoom level if none is set.
func (uc *ManageZoomUseCase) GetZoom(ctx context.Context, host string) (*entity.ZoomLevel, error) {
	log := logging.FromContext(ctx)

	if host == "" {
		return entity.NewZoomLevel(host, uc.defaultZoom), nil
	}

	zoom, err := uc.zoomRepo.Get(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get zoom level: %w", err)
	}

	if zoom == nil {
		zoom = entity.NewZoomLevel(host, uc.defaultZoom)
		log.Debug().Str("host", host).Float64("zoom", zoom.ZoomFactor).Msg("using default zoom")
	}

	return zoom, nil
}

// ResetZoom removes the custom zoom level for a host and returns the default.
func (uc *ManageZoomUseCase) ResetZoom(ctx context.Context, host string) (*entity.ZoomLevel, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("host", host).Msg("resetting zoom level")

	if host != "" {
		if err := uc.zoomRepo.Delete(ctx, host); err != nil {
			return nil, fmt.Errorf("failed to reset zoom level: %w", err)
		}
	}

	return entity.NewZoomLevel(host, uc.defaultZoom), nil
}

// ZoomIn increases the zoom level by one ladder step and persists it.
func (uc *ManageZoomUseCase) ZoomIn(ctx context.Context, host string, current float64) (*entity.ZoomLevel, error) {
	zoom := entity.NewZoomLevel(host, current)
	zoom.ZoomIn()
	return uc.save(ctx, zoom, current, "zooming in")
}

// ZoomOut decreases the zoom level by one ladder step and persists it.
func (uc *ManageZoomUseCase) ZoomOut(ctx context.Context, host string, current float64) (*entity.ZoomLevel, error) {
	zoom := entity.NewZoomLevel(host, current)
	zoom.ZoomOut()
	return uc.save(ctx, zoom, current, "zooming out")
}

func (uc *ManageZoomUseCase) save(ctx context.Context, zoom *entity.ZoomLevel, from float64, msg string) (*entity.ZoomLevel, error) {
	logging.FromContext(ctx).Debug().
		Str("host", zoom.Domain).
		Float64("from", from).
		Float64("to", zoom.ZoomFactor).
		Msg(msg)

	if zoom.Domain == "" {
		return zoom, nil
	}
	if err := uc.zoomRepo.Set(ctx, zoom); err != nil {
		return nil, fmt.Errorf("failed to save zoom level: %w", err)
	}
	return zoom, nil
}

// ApplyToSurface loads the saved zoom level for host and applies it to a surface.
func (uc *ManageZoomUseCase) ApplyToSurface(ctx context.Context, surface port.ContentSurface, host string) (*entity.ZoomLevel, error) {
	zoom, err := uc.GetZoom(ctx, host)
	if err != nil {
		return nil, err
	}

	if err := surface.SetZoomLevel(ctx, zoom.ZoomFactor); err != nil {
		return nil, fmt.Errorf("failed to set zoom level: %w", err)
	}
	return zoom, nil
}
