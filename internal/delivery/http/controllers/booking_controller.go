package controllers

import (
	"log/slog"
	"net/http"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"
)

// BookEventRequest is the request body for POST /events/{id}/bookings.
type BookEventRequest struct {
	Tickets int `json:"tickets"`
}

// Validate implements Validator.
func (b BookEventRequest) Validate() []string {
	if b.Tickets < 1 {
		return []string{"tickets must be at least 1"}
	}
	return nil
}

// FeedbackRequest is the request body for POST /bookings/{id}/feedback.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate implements Validator.
func (f FeedbackRequest) Validate() []string {
	if f.Rating < 1 || f.Rating > 5 {
		return []string{"rating must be between 1 and 5"}
	}
	return nil
}

// BookingSuccessResponse is the success envelope for single-booking endpoints.
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BookingsSuccessResponse is the success envelope for GET /bookings.
type BookingsSuccessResponse struct {
	Data  []domain.BookingWithEvent `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// BookEvent godoc
// @Summary Book tickets for an event
// @Description Free events are confirmed immediately; paid events start with a pending payment.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body BookEventRequest true "Ticket count"
// @Success 201 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{id}/bookings [post]
func (c *BookingController) BookEvent(w http.ResponseWriter, r *http.Request) {
	var req BookEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.Book(r.Context(), domain.BookingRequest{EventID: r.PathValue("id"), Tickets: req.Tickets})
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// MyBookings godoc
// @Summary Bookings of the signed-in user, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BookingsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /bookings [get]
func (c *BookingController) MyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := c.Service.MyBookings(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Releases the seats. Confirmed paid bookings are refunded.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /bookings/{id}/cancel [post]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := c.Service.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// MarkAttended godoc
// @Summary Check in to a booked event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /bookings/{id}/attend [post]
func (c *BookingController) MarkAttended(w http.ResponseWriter, r *http.Request) {
	booking, err := c.Service.MarkAttended(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// LeaveFeedback godoc
// @Summary Rate an attended event
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param body body FeedbackRequest true "Rating 1-5 and optional comment"
// @Success 200 {object} controllers.BookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /bookings/{id}/feedback [post]
func (c *BookingController) LeaveFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.LeaveFeedback(r.Context(), r.PathValue("id"), domain.Feedback{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}
