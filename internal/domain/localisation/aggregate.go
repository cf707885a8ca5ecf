package localisation

import "github.com/shopspring/decimal"

// CampagneSummary counts the dossiers of one campaign by localisation status.
// EnCours dossiers only count towards Total.
type CampagneSummary struct {
	CampagneID   int
	Campagne     string
	Total        int
	Localises    int
	NonLocalises int
	Transferes   int
}

// TauxLocalisation is the share of localised dossiers, rounded to two decimals
func (s CampagneSummary) TauxLocalisation() decimal.Decimal {
	if s.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Localises)).
		DivRound(decimal.NewFromInt(int64(s.Total)), 2)
}

// SummarizeByCampagne returns one row per campaign, in the given order, with
// the dossiers counted into it. Campaigns without dossiers get a zero row.
// Dossiers whose campaign is not listed get rows appended in order of first
// appearance.
func SummarizeByCampagne(campagnes []Campagne, dossiers []*Dossier) []CampagneSummary {
	index := make(map[int]int, len(campagnes))
	summaries := make([]CampagneSummary, 0, len(campagnes))
	for _, c := range campagnes {
		if _, ok := index[c.ID]; ok {
			continue
		}
		index[c.ID] = len(summaries)
		summaries = append(summaries, CampagneSummary{CampagneID: c.ID, Campagne: c.Nom})
	}
	for _, d := range dossiers {
		i, ok := index[d.Campagne.ID]
		if !ok {
			i = len(summaries)
			index[d.Campagne.ID] = i
			summaries = append(summaries, CampagneSummary{
				CampagneID: d.Campagne.ID,
				Campagne:   d.Campagne.Nom,
			})
		}
		s := &summaries[i]
		s.Total++
		switch d.StatutLocalisation {
		case StatutLocalise:
			s.Localises++
		case StatutNonLocalise:
			s.NonLocalises++
		case StatutTransfere:
			s.Transferes++
		}
	}
	return summaries
}
