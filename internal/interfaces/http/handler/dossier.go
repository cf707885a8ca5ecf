package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients make action POSTs safe to retry
const IdempotencyKeyHeader = "Idempotency-Key"

// DossierHandler serves dossier queries, actions and the GR results
type DossierHandler struct {
	BaseHandler
	dossierService *localisationapp.DossierService
}

// NewDossierHandler creates a new dossier handler
func NewDossierHandler(dossierService *localisationapp.DossierService) *DossierHandler {
	return &DossierHandler{dossierService: dossierService}
}

// List godoc
// @Summary      List dossiers
// @Description  Every filter is optional; cin and nom are case-insensitive substrings
// @Tags         dossiers
// @Produce      json
// @Param        cin                 query string false "CIN"
// @Param        nom                 query string false "Nom or prénom"
// @Param        brigadeId           query int    false "Brigade"
// @Param        campagneId          query int    false "Campaign"
// @Param        statutLocalisation  query string false "Status"
// @Param        typeLocalisation    query string false "Localisation type"
// @Success      200 {object} dto.Response{data=localisationapp.ListResult[localisationapp.DossierResponse]}
// @Security     BearerAuth
// @Router       /dossiers [get]
func (h *DossierHandler) List(c *gin.Context) {
	var filter localisationapp.ListDossiersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	result, err := h.dossierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get godoc
// @Summary      Get a dossier
// @Tags         dossiers
// @Produce      json
// @Param        id path int true "Dossier ID"
// @Success      200 {object} dto.Response{data=localisationapp.DossierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dossiers/{id} [get]
func (h *DossierHandler) Get(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	dossier, err := h.dossierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dossier)
}

// ApplyAction godoc
// @Summary      Apply an action to a dossier
// @Description  Body is optional except for nouvelle-adresse and transfert
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Param        id               path   int                            true  "Dossier ID"
// @Param        action           path   string                         true  "Action name"
// @Param        Idempotency-Key  header string                         false "Retry key"
// @Param        request          body   localisationapp.ActionPayload  false "Payload"
// @Success      200 {object} dto.Response{data=localisationapp.DossierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dossiers/{id}/{action} [post]
func (h *DossierHandler) ApplyAction(c *gin.Context) {
	id, ok := h.intParam(c, "id")
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}
	var payload localisationapp.ActionPayload
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := binding.JSON.BindBody(raw, &payload); err != nil {
			middleware.HandleBindingError(c, err)
			return
		}
	}

	dossier, err := h.dossierService.ApplyAction(c.Request.Context(), localisationapp.ApplyActionInput{
		DossierID:      id,
		Action:         c.Param("action"),
		Payload:        payload,
		Actor:          middleware.GetJWTUsername(c),
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dossier)
}

// Results godoc
// @Summary      Per-campaign localisation results
// @Description  One row per campaign of the catalog, campaigns without dossiers included
// @Tags         gr
// @Produce      json
// @Success      200 {object} dto.Response{data=[]localisationapp.CampagneResultResponse}
// @Security     BearerAuth
// @Router       /gr/resultats [get]
func (h *DossierHandler) Results(c *gin.Context) {
	rows, err := h.dossierService.AggregateByCampaign(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
