package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/interfaces/http/dto"
)

// BRFileField is the multipart field of a BR upload
const BRFileField = "fichier"

// DocumentHandler serves PV and bordereau files and receives BR uploads
type DocumentHandler struct {
	BaseHandler
	documentService *localisationapp.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *localisationapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// GetPVFile godoc
// @Summary      Download a PV
// @Tags         documents
// @Produce      octet-stream
// @Param        id    path int true "Dossier ID"
// @Param        pvId  path int true "PV ID"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dossiers/{id}/pvs/{pvId}/fichier [get]
func (h *DocumentHandler) GetPVFile(c *gin.Context) {
	dossierID, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	pvID, ok := h.intParam(c, "pvId")
	if !ok {
		return
	}
	file, err := h.documentService.GetPVFile(c.Request.Context(), dossierID, pvID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, file)
}

// GetBordereauFile godoc
// @Summary      Download a bordereau
// @Tags         documents
// @Produce      octet-stream
// @Param        id           path int true "Dossier ID"
// @Param        bordereauId  path int true "Bordereau ID"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dossiers/{id}/bordereaux/{bordereauId}/fichier [get]
func (h *DocumentHandler) GetBordereauFile(c *gin.Context) {
	dossierID, ok := h.intParam(c, "id")
	if !ok {
		return
	}
	bordereauID, ok := h.intParam(c, "bordereauId")
	if !ok {
		return
	}
	file, err := h.documentService.GetBordereauFile(c.Request.Context(), dossierID, bordereauID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, file)
}

func (h *DocumentHandler) sendFile(c *gin.Context, file *localisationapp.DocumentFile) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// UploadBR godoc
// @Summary      Upload a BR file
// @Tags         br
// @Accept       multipart/form-data
// @Produce      json
// @Param        fichier formData file true "BR file"
// @Success      200 {object} dto.Response{data=localisationapp.UploadResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /br/upload-fichier [post]
func (h *DocumentHandler) UploadBR(c *gin.Context) {
	header, err := c.FormFile(BRFileField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Uploaded file exceeds maximum allowed size")
			return
		}
		h.ValidationError(c, []dto.ValidationDetail{{
			Field:   BRFileField,
			Message: "This field is required",
			Code:    dto.ErrCodeValidationRequired,
		}})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	result, err := h.documentService.UploadBR(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
