// Package seed loads reference data and demo dossiers from YAML fixtures.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

// File is the YAML fixture layout
type File struct {
	Reservistes []Reserviste `yaml:"reservistes"`
	Brigades    []Brigade    `yaml:"brigades"`
	Campagnes   []Campagne   `yaml:"campagnes"`
	Users       []User       `yaml:"users"`
	Dossiers    []Dossier    `yaml:"dossiers"`
}

type Reserviste struct {
	CIN                string `yaml:"cin"`
	Nom                string `yaml:"nom"`
	Prenom             string `yaml:"prenom"`
	DateNaissance      string `yaml:"dateNaissance"`
	AdresseReference   string `yaml:"adresseReference"`
	StatutMobilisation string `yaml:"statutMobilisation"`
}

type Brigade struct {
	ID   int    `yaml:"id"`
	Nom  string `yaml:"nom"`
	Zone string `yaml:"zone"`
}

type Campagne struct {
	ID        int    `yaml:"id"`
	Nom       string `yaml:"nom"`
	DateDebut string `yaml:"dateDebut"`
	DateFin   string `yaml:"dateFin"`
	Statut    string `yaml:"statut"`
}

// User carries a clear-text password; it is hashed when the fixture is built
type User struct {
	ID       int    `yaml:"id"`
	Nom      string `yaml:"nom"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type Dossier struct {
	ID                 int          `yaml:"id"`
	CIN                string       `yaml:"cin"`
	CampagneID         int          `yaml:"campagneId"`
	BrigadeID          int          `yaml:"brigadeId"`
	DateReception      string       `yaml:"dateReception"`
	DateMiseAJour      string       `yaml:"dateMiseAJour"`
	StatutLocalisation string       `yaml:"statutLocalisation"`
	TypeLocalisation   string       `yaml:"typeLocalisation"`
	AdresseInvestiguer string       `yaml:"adresseInvestiguer"`
	PVs                []Document   `yaml:"pvs"`
	Bordereaux         []Document   `yaml:"bordereaux"`
	Historique         []Historique `yaml:"historique"`
}

// Document is either a PV or a bordereau; Motif is ignored for bordereaux
type Document struct {
	ID     int    `yaml:"id"`
	Numero string `yaml:"numero"`
	Type   string `yaml:"type"`
	Motif  string `yaml:"motif"`
	Date   string `yaml:"date"`
}

type Historique struct {
	ID          int    `yaml:"id"`
	Date        string `yaml:"date"`
	Utilisateur string `yaml:"utilisateur"`
	Action      string `yaml:"action"`
	Commentaire string `yaml:"commentaire"`
}

// Default returns the built-in fixture
func Default() (*File, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file; an empty path returns the built-in fixture
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML fixture, rejecting unknown fields
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

// Data is a fixture converted to domain objects
type Data struct {
	Reservistes []localisation.Reserviste
	Brigades    []localisation.Brigade
	Campagnes   []localisation.Campagne
	Users       []*identity.User
	Dossiers    []*localisation.Dossier
}

// Build converts the fixture. Passwords are hashed with bcryptCost and every
// dossier must reference a known reservist, campaign and (when set) brigade.
func (f *File) Build(bcryptCost int) (*Data, error) {
	data := &Data{}

	reservistes := make(map[string]localisation.Reserviste, len(f.Reservistes))
	for _, r := range f.Reservistes {
		born, err := parseDate(r.DateNaissance)
		if err != nil {
			return nil, fmt.Errorf("reserviste %s: %w", r.CIN, err)
		}
		res := localisation.Reserviste{
			CIN:                r.CIN,
			Nom:                r.Nom,
			Prenom:             r.Prenom,
			DateNaissance:      born,
			AdresseReference:   r.AdresseReference,
			StatutMobilisation: r.StatutMobilisation,
		}
		reservistes[r.CIN] = res
		data.Reservistes = append(data.Reservistes, res)
	}

	brigades := make(map[int]localisation.Brigade, len(f.Brigades))
	for _, b := range f.Brigades {
		br := localisation.Brigade{ID: b.ID, Nom: b.Nom, Zone: b.Zone}
		brigades[b.ID] = br
		data.Brigades = append(data.Brigades, br)
	}

	campagnes := make(map[int]localisation.Campagne, len(f.Campagnes))
	for _, c := range f.Campagnes {
		debut, err := parseDate(c.DateDebut)
		if err != nil {
			return nil, fmt.Errorf("campagne %d: %w", c.ID, err)
		}
		fin, err := parseDate(c.DateFin)
		if err != nil {
			return nil, fmt.Errorf("campagne %d: %w", c.ID, err)
		}
		camp, err := localisation.NewCampagne(c.Nom, debut, fin, localisation.CampagneStatut(c.Statut))
		if err != nil {
			return nil, fmt.Errorf("campagne %d: %w", c.ID, err)
		}
		camp.ID = c.ID
		campagnes[c.ID] = *camp
		data.Campagnes = append(data.Campagnes, *camp)
	}

	for _, u := range f.Users {
		user, err := identity.NewUser(u.Nom, u.Email, identity.Role(u.Role), u.Password, bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Email, err)
		}
		user.ID = u.ID
		data.Users = append(data.Users, user)
	}

	for _, d := range f.Dossiers {
		dossier, err := d.build(reservistes, campagnes, brigades)
		if err != nil {
			return nil, fmt.Errorf("dossier %d: %w", d.ID, err)
		}
		data.Dossiers = append(data.Dossiers, dossier)
	}
	return data, nil
}

func (d Dossier) build(
	reservistes map[string]localisation.Reserviste,
	campagnes map[int]localisation.Campagne,
	brigades map[int]localisation.Brigade,
) (*localisation.Dossier, error) {
	res, ok := reservistes[d.CIN]
	if !ok {
		return nil, shared.NewNotFoundError("reserviste", d.CIN)
	}
	camp, ok := campagnes[d.CampagneID]
	if !ok {
		return nil, shared.NewNotFoundError("campagne", fmt.Sprint(d.CampagneID))
	}
	var brigade *localisation.Brigade
	if d.BrigadeID != 0 {
		b, ok := brigades[d.BrigadeID]
		if !ok {
			return nil, shared.NewNotFoundError("brigade", fmt.Sprint(d.BrigadeID))
		}
		brigade = &b
	}
	received, err := parseDate(d.DateReception)
	if err != nil {
		return nil, err
	}

	dossier, err := localisation.NewDossier(res, camp, brigade, d.AdresseInvestiguer, received)
	if err != nil {
		return nil, err
	}
	dossier.ID = d.ID

	if d.StatutLocalisation != "" {
		if dossier.StatutLocalisation, err = localisation.ParseStatutLocalisation(d.StatutLocalisation); err != nil {
			return nil, err
		}
	}
	if d.TypeLocalisation != "" {
		if dossier.TypeLocalisation, err = localisation.ParseTypeLocalisation(d.TypeLocalisation); err != nil {
			return nil, err
		}
	}
	if d.DateMiseAJour != "" {
		if dossier.DateMiseAJour, err = parseDate(d.DateMiseAJour); err != nil {
			return nil, err
		}
	}

	for _, p := range d.PVs {
		at, err := parseDate(p.Date)
		if err != nil {
			return nil, err
		}
		dossier.PVs = append(dossier.PVs, localisation.PV{
			ID:                p.ID,
			Numero:            p.Numero,
			Type:              localisation.PVType(p.Type),
			Motif:             p.Motif,
			DateEtablissement: at,
			FichierURL:        localisation.PVFileURL(d.ID, p.ID),
		})
	}
	for _, b := range d.Bordereaux {
		at, err := parseDate(b.Date)
		if err != nil {
			return nil, err
		}
		dossier.Bordereaux = append(dossier.Bordereaux, localisation.Bordereau{
			ID:        b.ID,
			Numero:    b.Numero,
			Type:      localisation.BordereauType(b.Type),
			DateEnvoi: at,
		})
	}

	for _, h := range d.Historique {
		at, err := parseDate(h.Date)
		if err != nil {
			return nil, err
		}
		dossier.Historique = append(dossier.Historique, localisation.HistoriqueAction{
			ID:          h.ID,
			Date:        at,
			Utilisateur: h.Utilisateur,
			Action:      h.Action,
			Commentaire: h.Commentaire,
		})
	}
	// history is kept newest first whatever the fixture order
	sort.SliceStable(dossier.Historique, func(i, j int) bool {
		return dossier.Historique[i].Date.After(dossier.Historique[j].Date)
	})
	return dossier, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, shared.NewValidationError(fmt.Sprintf("Invalid date %q", value))
}
