package accounts

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/cleared-dev/liasse/internal/model"
)

//go:embed data/syscohada.csv
var syscohadaChart []byte

// DefaultClasses returns the nine classes of the revised SYSCOHADA chart.
func DefaultClasses() []model.Class {
	return []model.Class{
		{Number: 1, Label: "Comptes de ressources durables", Description: "Capitaux propres et dettes financières à long terme"},
		{Number: 2, Label: "Comptes d'actif immobilisé", Description: "Immobilisations incorporelles, corporelles et financières"},
		{Number: 3, Label: "Comptes de stocks", Description: "Stocks et en-cours de production"},
		{Number: 4, Label: "Comptes de tiers", Description: "Créances et dettes d'exploitation et hors exploitation"},
		{Number: 5, Label: "Comptes de trésorerie", Description: "Disponibilités et équivalents de trésorerie"},
		{Number: 6, Label: "Comptes de charges des activités ordinaires", Description: "Charges d'exploitation, financières et exceptionnelles"},
		{Number: 7, Label: "Comptes de produits des activités ordinaires", Description: "Produits d'exploitation, financiers et exceptionnels"},
		{Number: 8, Label: "Comptes des autres charges et des autres produits", Description: "HAO (hors activités ordinaires) et participations"},
		{Number: 9, Label: "Comptes des engagements hors bilan et comptabilité analytique", Description: "Engagements, analytique et comptes spéciaux"},
	}
}

// DefaultChart returns the embedded revised SYSCOHADA chart of accounts.
func DefaultChart() ([]model.Account, error) {
	accts, err := ReadAccounts(bytes.NewReader(syscohadaChart))
	if err != nil {
		return nil, fmt.Errorf("reading embedded chart: %w", err)
	}
	return accts, nil
}
