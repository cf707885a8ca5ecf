package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
)

// ReferenceHandler serves reservists, brigades and campaigns
type ReferenceHandler struct {
	BaseHandler
	referenceService *localisationapp.ReferenceService
}

// NewReferenceHandler creates a new reference data handler
func NewReferenceHandler(referenceService *localisationapp.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListReservistes godoc
// @Summary      List reservists
// @Tags         reservistes
// @Produce      json
// @Success      200 {object} dto.Response{data=[]localisationapp.ReservisteResponse}
// @Router       /reservistes [get]
func (h *ReferenceHandler) ListReservistes(c *gin.Context) {
	items, err := h.referenceService.ListReservistes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetReserviste godoc
// @Summary      Get a reservist by CIN
// @Tags         reservistes
// @Produce      json
// @Param        cin path string true "CIN"
// @Success      200 {object} dto.Response{data=localisationapp.ReservisteResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reservistes/{cin} [get]
func (h *ReferenceHandler) GetReserviste(c *gin.Context) {
	item, err := h.referenceService.GetReserviste(c.Request.Context(), c.Param("cin"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListBrigades godoc
// @Summary      List brigades
// @Tags         brigades
// @Produce      json
// @Success      200 {object} dto.Response{data=[]localisationapp.BrigadeResponse}
// @Router       /brigades [get]
func (h *ReferenceHandler) ListBrigades(c *gin.Context) {
	items, err := h.referenceService.ListBrigades(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetBrigade returns one brigade
func (h *ReferenceHandler) GetBrigade(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	item, err := h.referenceService.GetBrigade(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListCampagnes godoc
// @Summary      List campaigns
// @Tags         campagnes
// @Produce      json
// @Success      200 {object} dto.Response{data=localisationapp.ListResult[localisationapp.CampagneResponse]}
// @Router       /campagnes [get]
func (h *ReferenceHandler) ListCampagnes(c *gin.Context) {
	result, err := h.referenceService.ListCampagnes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetCampagne godoc
// @Summary      Get a campaign
// @Tags         campagnes
// @Produce      json
// @Param        id path int true "Campaign ID"
// @Success      200 {object} dto.Response{data=localisationapp.CampagneResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /campagnes/{id} [get]
func (h *ReferenceHandler) GetCampagne(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	item, err := h.referenceService.GetCampagne(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateCampagne godoc
// @Summary      Create a campaign
// @Tags         campagnes
// @Accept       json
// @Produce      json
// @Param        request body localisationapp.CreateCampagneRequest true "Campaign"
// @Success      201 {object} dto.Response{data=localisationapp.CampagneResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /campagnes [post]
func (h *ReferenceHandler) CreateCampagne(c *gin.Context) {
	var req localisationapp.CreateCampagneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	item, err := h.referenceService.CreateCampagne(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Location", "/api/v1/campagnes/"+strconv.Itoa(item.ID))
	h.Created(c, item)
}
