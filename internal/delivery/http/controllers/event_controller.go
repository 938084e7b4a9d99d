package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Images      []string           `json:"images"`
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Venue       string             `json:"venue"`
	Address     string             `json:"address"`
	City        string             `json:"city"`
	Coordinates domain.Coordinates `json:"coordinates"`
	Price       int64              `json:"price"`
	Currency    string             `json:"currency"`
	Capacity    int                `json:"capacity"`
	Tags        []string           `json:"tags"`
	Community   string             `json:"community"`
}

// Validate implements Validator. Field rules beyond presence are enforced by the service.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if _, ok := domain.ParseCategory(c.Category); !ok {
		errs = append(errs, "category is invalid")
	}
	if c.Start.IsZero() || c.End.IsZero() {
		errs = append(errs, "start and end are required")
	}
	return errs
}

func (c CreateEventRequest) input() domain.CreateEventInput {
	return domain.CreateEventInput{
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Category:    domain.Category(c.Category),
		Images:      c.Images,
		Start:       c.Start,
		End:         c.End,
		Venue:       c.Venue,
		Address:     c.Address,
		City:        c.City,
		Coordinates: c.Coordinates,
		Price:       c.Price,
		Currency:    c.Currency,
		Capacity:    c.Capacity,
		Tags:        c.Tags,
		Community:   c.Community,
	}
}

// EventListResponse is the data payload of GET /events.
type EventListResponse struct {
	Events     []domain.Event         `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventSuccessResponse is the success envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /events.
type EventListSuccessResponse struct {
	Data  *EventListResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventsSuccessResponse is the success envelope for unpaginated event lists.
type EventsSuccessResponse struct {
	Data  []domain.Event    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewEventController(logger *slog.Logger, svc domain.CatalogService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary Browse the event catalog
// @Description Filter, sort and paginate events. Unknown categories and sort keys are ignored. The date range applies only when both start and end parse (RFC3339 or YYYY-MM-DD).
// @Tags events
// @Produce json
// @Param q query string false "Free text matched against title, description, host name and tags"
// @Param category query string false "Category"
// @Param location query string false "Venue or address substring"
// @Param city query string false "City substring"
// @Param start query string false "Start of the date range"
// @Param end query string false "End of the date range"
// @Param min_price query int false "Minimum price"
// @Param max_price query int false "Maximum price"
// @Param featured query bool false "Only featured events"
// @Param sort query string false "relevance, date, price or popularity"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	page, err := c.Service.Browse(r.Context(), helpers.ParseCriteria(r), params)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     page.Events,
		Pagination: helpers.NewPaginationMeta(params, page.Total),
	})
}

// SearchEvents godoc
// @Summary Search events by text
// @Tags events
// @Produce json
// @Param q query string false "Search text; empty returns every event"
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/search [get]
func (c *EventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Recommendations godoc
// @Summary Recommended events
// @Description Up to ten upcoming events ranked by popularity, interest overlap with the signed-in user and featured status.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/recommendations [get]
func (c *EventController) Recommendations(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.Recommend(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// FeaturedEvents godoc
// @Summary Featured upcoming events
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventsSuccessResponse
// @Router /events/featured [get]
func (c *EventController) FeaturedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.FeaturedEvents(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpcomingEvents godoc
// @Summary Upcoming events, soonest first
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventsSuccessResponse
// @Router /events/upcoming [get]
func (c *EventController) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.UpcomingEvents(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CategoryCounts godoc
// @Summary Number of events per category
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is a list of category counts"
// @Router /events/categories [get]
func (c *EventController) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := c.Service.CategoryCounts(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, counts)
}

// GetEvent godoc
// @Summary Get an event by id
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ToggleLike godoc
// @Summary Like or unlike an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/like [post]
func (c *EventController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.ToggleLike(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Publish a new event
// @Description Hosts and admins only. The signed-in user becomes the host.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.input())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Hosts may cancel their own events; admins may cancel any event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.CancelEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
