package handlers

import (
	"context"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type APIHandler struct {
	db *gorm.DB
}

func NewAPIHandler(db *gorm.DB) *APIHandler {
	return &APIHandler{db: db}
}

type ListReservationsResponse struct {
	Body []models.ReservationAPI
}

// HandleListReservations returns every reservation. The endpoint is public by
// design: it is the one machine-readable surface, for external read access
// without a browser session.
func (h *APIHandler) HandleListReservations(ctx context.Context, input *struct{}) (*ListReservationsResponse, error) {
	var reservations []models.Reservation
	if err := h.db.Order("check_in").Find(&reservations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load reservations: " + err.Error())
	}

	res := &ListReservationsResponse{Body: make([]models.ReservationAPI, 0, len(reservations))}
	for _, r := range reservations {
		res.Body = append(res.Body, r.ToAPI())
	}
	return res, nil
}
