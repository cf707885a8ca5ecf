package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentHandler_GetPVFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/dossiers/1/pvs/1/fichier", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename=PV-2025-001.txt`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "PV-2025-001")
	assert.Contains(t, w.Body.String(), "A123456")

	stored, err := env.storage.Get(context.Background(), localisationapp.PVKey(1, 1))
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), stored.Data)

	t.Run("second download reads the stored file", func(t *testing.T) {
		before := env.storage.Len()
		w := env.do(http.MethodGet, "/api/v1/dossiers/1/pvs/1/fichier", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, before, env.storage.Len())
	})

	t.Run("pv of another dossier", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/dossiers/1/pvs/2/fichier", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCodeOf(t, w))
	})

	t.Run("invalid pv id", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/dossiers/1/pvs/0/fichier", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentHandler_GetBordereauFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/dossiers/2/bordereaux/1/fichier", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "BOR-2025-01.txt")
	assert.Contains(t, w.Body.String(), "Brigade Sud")

	w = env.do(http.MethodGet, "/api/v1/dossiers/1/bordereaux/1/fichier", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newUploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/br/upload-fichier", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_UploadBR(t *testing.T) {
	env := newTestEnv(t)

	t.Run("stores the file", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, newUploadRequest(t, BRFileField, "br-janvier.pdf", []byte("%PDF-1.4")))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result localisationapp.UploadResult
		decode(t, w, &result)
		assert.True(t, strings.HasPrefix(result.Key, "br/"))
		assert.True(t, strings.HasSuffix(result.Key, "/br-janvier.pdf"))
		assert.NotEmpty(t, result.Message)

		stored, err := env.storage.Get(context.Background(), result.Key)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), stored.Data)
	})

	t.Run("missing file field", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, newUploadRequest(t, "", "", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, BRFileField, resp.Error.Details[0].Field)
	})

	t.Run("empty file", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, newUploadRequest(t, BRFileField, "vide.pdf", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
