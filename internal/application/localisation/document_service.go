package localisation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const textContentType = "text/plain; charset=utf-8"

// DocumentService serves PV and bordereau files and stores BR uploads
type DocumentService struct {
	dossiers localisation.DossierRepository
	storage  DocumentStorage
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(dossiers localisation.DossierRepository, storage DocumentStorage) *DocumentService {
	return &DocumentService{dossiers: dossiers, storage: storage}
}

// PVKey is the storage key of a PV file
func PVKey(dossierID, pvID int) string {
	return fmt.Sprintf("dossiers/%d/pvs/%d", dossierID, pvID)
}

// BordereauKey is the storage key of a bordereau file
func BordereauKey(dossierID, bordereauID int) string {
	return fmt.Sprintf("dossiers/%d/bordereaux/%d", dossierID, bordereauID)
}

// GetPVFile returns the stored PV file, rendering a text summary on first access
func (s *DocumentService) GetPVFile(ctx context.Context, dossierID, pvID int) (*DocumentFile, error) {
	d, err := s.dossiers.FindByID(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	pv, ok := d.FindPV(pvID)
	if !ok {
		return nil, shared.NewNotFoundError("pv", strconv.Itoa(pvID))
	}
	return s.fetchOrRender(ctx, PVKey(dossierID, pvID), pv.Numero+".txt", func() []byte {
		return renderPV(d, pv)
	})
}

// GetBordereauFile returns the stored bordereau file, rendering a text summary on first access
func (s *DocumentService) GetBordereauFile(ctx context.Context, dossierID, bordereauID int) (*DocumentFile, error) {
	d, err := s.dossiers.FindByID(ctx, dossierID)
	if err != nil {
		return nil, err
	}
	b, ok := d.FindBordereau(bordereauID)
	if !ok {
		return nil, shared.NewNotFoundError("bordereau", strconv.Itoa(bordereauID))
	}
	return s.fetchOrRender(ctx, BordereauKey(dossierID, bordereauID), b.Numero+".txt", func() []byte {
		return renderBordereau(d, b)
	})
}

func (s *DocumentService) fetchOrRender(ctx context.Context, key, filename string, render func() []byte) (*DocumentFile, error) {
	stored, err := s.storage.Get(ctx, key)
	if err == nil {
		contentType := stored.ContentType
		if contentType == "" {
			contentType = textContentType
		}
		return &DocumentFile{Filename: filename, ContentType: contentType, Data: stored.Data}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	data := render()
	if err := s.storage.Put(ctx, key, data, textContentType); err != nil {
		return nil, err
	}
	logger.L(ctx).Debug("Document rendered", zap.String("key", key))
	return &DocumentFile{Filename: filename, ContentType: textContentType, Data: data}, nil
}

// UploadBR stores an uploaded BR file under br/{uuid}/{filename}
func (s *DocumentService) UploadBR(ctx context.Context, filename, contentType string, data []byte) (*UploadResult, error) {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, shared.NewValidationError("fichier must have a file name")
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("fichier cannot be empty")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := "br/" + uuid.NewString() + "/" + name
	if err := s.storage.Put(ctx, key, data, contentType); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("BR file uploaded", zap.String("key", key), zap.Int("size", len(data)))
	return &UploadResult{Message: "Fichier BR reçu", Key: key}, nil
}

func renderPV(d *localisation.Dossier, pv localisation.PV) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "PROCES-VERBAL %s\n", pv.Numero)
	fmt.Fprintf(&b, "Type: %s\n", pv.Type)
	fmt.Fprintf(&b, "Motif: %s\n", pv.Motif)
	fmt.Fprintf(&b, "Date: %s\n", pv.DateEtablissement.Format("2006-01-02 15:04:05"))
	writeDossierSummary(&b, d)
	return []byte(b.String())
}

func renderBordereau(d *localisation.Dossier, bor localisation.Bordereau) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "BORDEREAU %s\n", bor.Numero)
	fmt.Fprintf(&b, "Type: %s\n", bor.Type)
	fmt.Fprintf(&b, "Date d'envoi: %s\n", bor.DateEnvoi.Format("2006-01-02 15:04:05"))
	writeDossierSummary(&b, d)
	return []byte(b.String())
}

func writeDossierSummary(b *strings.Builder, d *localisation.Dossier) {
	fmt.Fprintf(b, "\nDossier: %d\n", d.ID)
	fmt.Fprintf(b, "Réserviste: %s %s (CIN %s)\n", d.Reserviste.Nom, d.Reserviste.Prenom, d.Reserviste.CIN)
	fmt.Fprintf(b, "Campagne: %s\n", d.Campagne.Nom)
	if d.Brigade != nil {
		fmt.Fprintf(b, "Brigade: %s\n", d.Brigade.Nom)
	} else {
		b.WriteString("Brigade: non affectée\n")
	}
	fmt.Fprintf(b, "Adresse: %s\n", d.AdresseInvestiguer)
	fmt.Fprintf(b, "Statut: %s / %s\n", d.StatutLocalisation, d.TypeLocalisation)
}
