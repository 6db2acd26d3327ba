package services

import (
	"context"
	"log/slog"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"
)

// CourierClient lists the parcels booked with the courier.
type CourierClient interface {
	ListParcels(ctx context.Context) ([]models.Parcel, error)
}

// CourierService proxies shipment data from the courier.
type CourierService struct {
	client CourierClient
}

// NewCourierService creates a new CourierService. A nil client yields no parcels.
func NewCourierService(client CourierClient) *CourierService {
	return &CourierService{client: client}
}

// ListBookedParcels returns the courier's booked packets. Upstream failures
// are logged and reported as an empty list.
func (s *CourierService) ListBookedParcels(ctx context.Context) []models.Parcel {
	ctx, span := tracer.Start(ctx, "CourierService.ListBookedParcels")
	defer span.End()

	if s.client == nil {
		return []models.Parcel{}
	}
	parcels, err := s.client.ListParcels(ctx)
	if err != nil {
		telemetry.CourierRequests.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "courier request failed, returning no parcels", "error", err)
		return []models.Parcel{}
	}
	telemetry.CourierRequests.WithLabelValues("ok").Inc()
	if parcels == nil {
		parcels = []models.Parcel{}
	}
	return parcels
}
