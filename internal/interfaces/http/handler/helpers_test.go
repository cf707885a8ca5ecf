package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/localisation/backend/internal/application/identity"
	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/infrastructure/auth"
	"github.com/localisation/backend/internal/infrastructure/cache"
	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/localisation/backend/internal/infrastructure/persistence/memory"
	"github.com/localisation/backend/internal/infrastructure/persistence/seed"
	"github.com/localisation/backend/internal/infrastructure/storage"
	"github.com/localisation/backend/internal/interfaces/http/dto"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	engine   *gin.Engine
	dossiers *memory.DossierStore
	storage  *storage.MemoryDocumentStorage
	jwt      *auth.JWTService
}

// newTestEnv serves the built-in seed fixture through every handler
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	file, err := seed.Default()
	require.NoError(t, err)
	data, err := file.Build(bcrypt.MinCost)
	require.NoError(t, err)

	dossiers, err := memory.NewDossierStore(data.Dossiers...)
	require.NoError(t, err)
	catalog := memory.NewCatalog(data.Reservistes, data.Brigades, data.Campagnes)
	users := memory.NewUserRepository(data.Users...)
	docs := storage.NewMemoryDocumentStorage()

	idempotency := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idempotency.Close() })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-with-32-characters",
		AccessTokenExpiration: time.Hour,
		Issuer:                "localisation-test",
	})

	dossierService := localisationapp.NewDossierService(dossiers, catalog,
		localisationapp.DossierServiceConfig{DefaultActor: "systeme", IdempotencyTTL: time.Hour},
		localisationapp.WithIdempotencyStore(idempotency),
	)

	authHandler := NewAuthHandler(identityapp.NewAuthService(users, jwtService, zap.NewNop()))
	userHandler := NewUserHandler(identityapp.NewUserService(users, bcrypt.MinCost))
	referenceHandler := NewReferenceHandler(localisationapp.NewReferenceService(catalog))
	dossierHandler := NewDossierHandler(dossierService)
	documentHandler := NewDocumentHandler(localisationapp.NewDocumentService(dossiers, docs))

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{JWTService: jwtService}))

	api := engine.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/users", userHandler.List)
	api.POST("/users", userHandler.Create)
	api.GET("/reservistes", referenceHandler.ListReservistes)
	api.GET("/reservistes/:cin", referenceHandler.GetReserviste)
	api.GET("/brigades", referenceHandler.ListBrigades)
	api.GET("/brigades/:id", referenceHandler.GetBrigade)
	api.GET("/campagnes", referenceHandler.ListCampagnes)
	api.POST("/campagnes", referenceHandler.CreateCampagne)
	api.GET("/campagnes/:id", referenceHandler.GetCampagne)
	api.GET("/dossiers", dossierHandler.List)
	api.GET("/dossiers/:id", dossierHandler.Get)
	api.POST("/dossiers/:id/:action", dossierHandler.ApplyAction)
	api.GET("/dossiers/:id/pvs/:pvId/fichier", documentHandler.GetPVFile)
	api.GET("/dossiers/:id/bordereaux/:bordereauId/fichier", documentHandler.GetBordereauFile)
	api.POST("/br/upload-fichier", documentHandler.UploadBR)
	api.GET("/gr/resultats", dossierHandler.Results)

	return &testEnv{engine: engine, dossiers: dossiers, storage: docs, jwt: jwtService}
}

func (e *testEnv) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) bearer(t *testing.T, userID int, username string) map[string]string {
	t.Helper()
	token, err := e.jwt.GenerateToken(auth.TokenInput{UserID: userID, Username: username})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token.AccessToken}
}

// decode unmarshals the envelope and its data into out (when non-nil)
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w, nil)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
