package localisation

import (
	"time"

	"github.com/localisation/backend/internal/domain/localisation"
)

const dateLayout = "2006-01-02"

// ListResult wraps a listing with its size
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newListResult[T any](items []T) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return ListResult[T]{Items: items, Total: len(items)}
}

// ReservisteResponse represents a reservist in API responses
type ReservisteResponse struct {
	CIN                string `json:"cin"`
	Nom                string `json:"nom"`
	Prenom             string `json:"prenom"`
	DateNaissance      string `json:"dateNaissance,omitempty"`
	AdresseReference   string `json:"adresseReference"`
	StatutMobilisation string `json:"statutMobilisation"`
}

// BrigadeResponse represents a brigade in API responses
type BrigadeResponse struct {
	ID   int    `json:"id"`
	Nom  string `json:"nom"`
	Zone string `json:"zone"`
}

// CampagneResponse represents a campaign in API responses
type CampagneResponse struct {
	ID        int    `json:"id"`
	Nom       string `json:"nom"`
	DateDebut string `json:"dateDebut,omitempty"`
	DateFin   string `json:"dateFin,omitempty"`
	Statut    string `json:"statut"`
}

// PVResponse represents a procès-verbal in API responses
type PVResponse struct {
	ID                int       `json:"id"`
	Numero            string    `json:"numero"`
	Type              string    `json:"type"`
	Motif             string    `json:"motif"`
	DateEtablissement time.Time `json:"dateEtablissement"`
	FichierURL        string    `json:"fichierUrl"`
}

// BordereauResponse represents a transfer slip in API responses
type BordereauResponse struct {
	ID        int       `json:"id"`
	Numero    string    `json:"numero"`
	Type      string    `json:"type"`
	DateEnvoi time.Time `json:"dateEnvoi"`
}

// HistoriqueResponse represents one history entry
type HistoriqueResponse struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Utilisateur string    `json:"utilisateur"`
	Action      string    `json:"action"`
	Commentaire string    `json:"commentaire"`
}

// DossierResponse represents a dossier in API responses
type DossierResponse struct {
	ID                 int                  `json:"id"`
	DateReception      time.Time            `json:"dateReception"`
	DateMiseAJour      time.Time            `json:"dateMiseAJour"`
	StatutLocalisation string               `json:"statutLocalisation"`
	TypeLocalisation   string               `json:"typeLocalisation"`
	AdresseInvestiguer string               `json:"adresseInvestiguer"`
	Reserviste         ReservisteResponse   `json:"reserviste"`
	Campagne           CampagneResponse     `json:"campagne"`
	Brigade            *BrigadeResponse     `json:"brigade"`
	PVs                []PVResponse         `json:"pvs"`
	Bordereaux         []BordereauResponse  `json:"bordereaux"`
	Historique         []HistoriqueResponse `json:"historique"`
}

// ListDossiersFilter is the query of GET /dossiers. All fields are optional.
type ListDossiersFilter struct {
	CIN                string `form:"cin"`
	Nom                string `form:"nom"`
	BrigadeID          *int   `form:"brigadeId" binding:"omitempty,min=1"`
	CampagneID         *int   `form:"campagneId" binding:"omitempty,min=1"`
	StatutLocalisation string `form:"statutLocalisation"`
	TypeLocalisation   string `form:"typeLocalisation"`
}

// ActionPayload is the optional body of POST /dossiers/:id/:action
type ActionPayload struct {
	Adresse        string `json:"adresse"`
	CasParticulier bool   `json:"casParticulier"`
	BrigadeID      int    `json:"brigadeId"`
	Commentaire    string `json:"commentaire"`
}

// ApplyActionInput carries one action request
type ApplyActionInput struct {
	DossierID      int
	Action         string
	Payload        ActionPayload
	Actor          string
	IdempotencyKey string
}

// CampagneResultResponse is one row of the per-campaign aggregation
type CampagneResultResponse struct {
	CampagneID       int    `json:"campagneId"`
	Campagne         string `json:"campagne"`
	Total            int    `json:"total"`
	Localises        int    `json:"localises"`
	NonLocalises     int    `json:"nonLocalises"`
	Transferes       int    `json:"transferes"`
	TauxLocalisation string `json:"tauxLocalisation"`
}

// CreateCampagneRequest is the body of POST /campagnes. Dates use yyyy-MM-dd.
type CreateCampagneRequest struct {
	Nom       string `json:"nom" binding:"required,max=200"`
	DateDebut string `json:"dateDebut" binding:"omitempty,datetime=2006-01-02"`
	DateFin   string `json:"dateFin" binding:"omitempty,datetime=2006-01-02"`
	Statut    string `json:"statut" binding:"omitempty,oneof=Planifiee EnCours Terminee"`
}

// DocumentFile is a rendered or stored document ready for download
type DocumentFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is returned by the BR upload
type UploadResult struct {
	Message string `json:"message"`
	Key     string `json:"key"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// ToReservisteResponse converts a domain Reserviste
func ToReservisteResponse(r localisation.Reserviste) ReservisteResponse {
	return ReservisteResponse{
		CIN:                r.CIN,
		Nom:                r.Nom,
		Prenom:             r.Prenom,
		DateNaissance:      formatDate(r.DateNaissance),
		AdresseReference:   r.AdresseReference,
		StatutMobilisation: r.StatutMobilisation,
	}
}

// ToBrigadeResponse converts a domain Brigade
func ToBrigadeResponse(b localisation.Brigade) BrigadeResponse {
	return BrigadeResponse{ID: b.ID, Nom: b.Nom, Zone: b.Zone}
}

// ToCampagneResponse converts a domain Campagne
func ToCampagneResponse(c localisation.Campagne) CampagneResponse {
	return CampagneResponse{
		ID:        c.ID,
		Nom:       c.Nom,
		DateDebut: formatDate(c.DateDebut),
		DateFin:   formatDate(c.DateFin),
		Statut:    string(c.Statut),
	}
}

// ToDossierResponse converts a domain Dossier
func ToDossierResponse(d *localisation.Dossier) DossierResponse {
	resp := DossierResponse{
		ID:                 d.ID,
		DateReception:      d.DateReception,
		DateMiseAJour:      d.DateMiseAJour,
		StatutLocalisation: d.StatutLocalisation.String(),
		TypeLocalisation:   d.TypeLocalisation.String(),
		AdresseInvestiguer: d.AdresseInvestiguer,
		Reserviste:         ToReservisteResponse(d.Reserviste),
		Campagne:           ToCampagneResponse(d.Campagne),
		PVs:                make([]PVResponse, 0, len(d.PVs)),
		Bordereaux:         make([]BordereauResponse, 0, len(d.Bordereaux)),
		Historique:         make([]HistoriqueResponse, 0, len(d.Historique)),
	}
	if d.Brigade != nil {
		b := ToBrigadeResponse(*d.Brigade)
		resp.Brigade = &b
	}
	for _, pv := range d.PVs {
		resp.PVs = append(resp.PVs, PVResponse{
			ID:                pv.ID,
			Numero:            pv.Numero,
			Type:              string(pv.Type),
			Motif:             pv.Motif,
			DateEtablissement: pv.DateEtablissement,
			FichierURL:        pv.FichierURL,
		})
	}
	for _, b := range d.Bordereaux {
		resp.Bordereaux = append(resp.Bordereaux, BordereauResponse{
			ID:        b.ID,
			Numero:    b.Numero,
			Type:      string(b.Type),
			DateEnvoi: b.DateEnvoi,
		})
	}
	for _, h := range d.Historique {
		resp.Historique = append(resp.Historique, HistoriqueResponse{
			ID:          h.ID,
			Date:        h.Date,
			Utilisateur: h.Utilisateur,
			Action:      h.Action,
			Commentaire: h.Commentaire,
		})
	}
	return resp
}

// ToCampagneResultResponse converts a campaign summary
func ToCampagneResultResponse(s localisation.CampagneSummary) CampagneResultResponse {
	return CampagneResultResponse{
		CampagneID:       s.CampagneID,
		Campagne:         s.Campagne,
		Total:            s.Total,
		Localises:        s.Localises,
		NonLocalises:     s.NonLocalises,
		Transferes:       s.Transferes,
		TauxLocalisation: s.TauxLocalisation().StringFixed(2),
	}
}
