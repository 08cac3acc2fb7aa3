package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type LocationsController struct {
	locationService *services.LocationService
	holidayService  *services.HolidayService
}

func NewLocationsController(ls *services.LocationService, hs *services.HolidayService) *LocationsController {
	return &LocationsController{locationService: ls, holidayService: hs}
}

// ----------------------------------------------------------------
// POST /api/v1/locations
// ----------------------------------------------------------------
func (c *LocationsController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req dtos.CreateLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	loc, err := c.locationService.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToLocationDTO(loc))
}

// ----------------------------------------------------------------
// GET /api/v1/locations
// ----------------------------------------------------------------
func (c *LocationsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	locations, err := c.locationService.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLocationDTOs(locations))
}

// ----------------------------------------------------------------
// GET /api/v1/locations/{id}
// ----------------------------------------------------------------
func (c *LocationsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id, err := pathUUID(mux.Vars(r), "id")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid location ID", nil)
		return
	}

	loc, err := c.locationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if loc == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLocationDTO(loc))
}

// ----------------------------------------------------------------
// GET /api/v1/holidays?year=2026&location_id=...
// ----------------------------------------------------------------
func (c *LocationsController) ListHolidaysHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	q := r.URL.Query()
	year := time.Now().UTC().Year()
	if rawYear := q.Get("year"); rawYear != "" {
		parsed, err := strconv.Atoi(rawYear)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid year", nil)
			return
		}
		year = parsed
	}

	var locationID *uuid.UUID
	if rawLoc := q.Get("location_id"); rawLoc != "" {
		parsed, err := uuid.Parse(rawLoc)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid location_id", nil)
			return
		}
		locationID = &parsed
	}

	holidays, err := c.holidayService.ListForYear(r.Context(), year, locationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToPublicHolidayDTOs(holidays))
}
