package localisation

import (
	"fmt"
	"time"
)

// PVType is the kind of procès-verbal
type PVType string

const (
	PVNonLocalisation PVType = "NonLocalisation"
	PVTransfert       PVType = "Transfert"
	PVDecede          PVType = "Decede"
	PVEcroue          PVType = "Ecroue"
	PVAEtranger       PVType = "A_Etranger"
	PVInapte          PVType = "Inapte"
	PVAutre           PVType = "Autre"
)

// BordereauType is the kind of transfer slip
type BordereauType string

const (
	BordereauTransfert BordereauType = "Transfert"
	BordereauBR        BordereauType = "BR"
)

// PV is a procès-verbal attached to a dossier. Immutable once issued.
type PV struct {
	ID                int
	Numero            string
	Type              PVType
	Motif             string
	DateEtablissement time.Time
	FichierURL        string
}

// Bordereau is a transfer slip attached to a dossier. Immutable once issued.
type Bordereau struct {
	ID        int
	Numero    string
	Type      BordereauType
	DateEnvoi time.Time
}

// PVFileURL returns the download path of a PV
func PVFileURL(dossierID, pvID int) string {
	return fmt.Sprintf("/api/v1/dossiers/%d/pvs/%d/fichier", dossierID, pvID)
}

// BordereauFileURL returns the download path of a bordereau
func BordereauFileURL(dossierID, bordereauID int) string {
	return fmt.Sprintf("/api/v1/dossiers/%d/bordereaux/%d/fichier", dossierID, bordereauID)
}

// documentNumber derives the display number of a document.
// The sequence suffix keeps numbers distinct within the same second.
func documentNumber(prefix string, at time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, at.Format("20060102150405"), seq)
}

// IssuePV appends a new PV to the dossier and returns it.
// Ids are scoped to the dossier and never reused.
func (d *Dossier) IssuePV(pvType PVType, motif string, at time.Time) PV {
	d.pvSeq = max(d.pvSeq, maxPVID(d.PVs)) + 1
	pv := PV{
		ID:                d.pvSeq,
		Numero:            documentNumber("PV", at, d.pvSeq),
		Type:              pvType,
		Motif:             motif,
		DateEtablissement: at,
		FichierURL:        PVFileURL(d.ID, d.pvSeq),
	}
	d.PVs = append(d.PVs, pv)
	return pv
}

// IssueBordereau appends a new bordereau to the dossier and returns it
func (d *Dossier) IssueBordereau(bordereauType BordereauType, at time.Time) Bordereau {
	d.bordereauSeq = max(d.bordereauSeq, maxBordereauID(d.Bordereaux)) + 1
	b := Bordereau{
		ID:        d.bordereauSeq,
		Numero:    documentNumber("BOR", at, d.bordereauSeq),
		Type:      bordereauType,
		DateEnvoi: at,
	}
	d.Bordereaux = append(d.Bordereaux, b)
	return b
}

// FindPV returns the PV with the given id
func (d *Dossier) FindPV(id int) (PV, bool) {
	for _, pv := range d.PVs {
		if pv.ID == id {
			return pv, true
		}
	}
	return PV{}, false
}

// FindBordereau returns the bordereau with the given id
func (d *Dossier) FindBordereau(id int) (Bordereau, bool) {
	for _, b := range d.Bordereaux {
		if b.ID == id {
			return b, true
		}
	}
	return Bordereau{}, false
}

func maxPVID(pvs []PV) int {
	m := 0
	for _, pv := range pvs {
		m = max(m, pv.ID)
	}
	return m
}

func maxBordereauID(bordereaux []Bordereau) int {
	m := 0
	for _, b := range bordereaux {
		m = max(m, b.ID)
	}
	return m
}
