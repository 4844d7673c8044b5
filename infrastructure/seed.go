package infrastructure

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"role-catalog/domain"
)

func coord(v float64) *float64 { return &v }

var sampleRoles = []domain.RoleFields{
	{
		Title:          "Data Analist",
		Description:    "Analyseert studiefinancieringsdata en vertaalt die naar beleidsadvies.",
		Prerequisites:  "SQL, Python of R, statistiek",
		EducationLevel: "HBO",
		CourseName:     "Data Science voor de overheid",
		FollowUpRole:   "Senior Data Analist",
		LocationName:   "DUO Groningen",
		Latitude:       coord(53.21),
		Longitude:      coord(6.56),
	},
	{
		Title:          "Beleidsmedewerker",
		Description:    "Schrijft en toetst beleid voor onderwijs en arbeidsmarkt.",
		Prerequisites:  "Analytisch schrijven, kennis van wetgevingsprocessen",
		EducationLevel: "WO",
		CourseName:     "Wetgevingsacademie basis",
		FollowUpRole:   "Senior Beleidsadviseur",
		LocationName:   "Den Haag",
		Latitude:       coord(52.08),
		Longitude:      coord(4.31),
	},
	{
		Title:          "Servicedesk Medewerker",
		Description:    "Eerste aanspreekpunt voor vragen van burgers en collega's.",
		Prerequisites:  "Klantgericht, ITIL foundation is een pre",
		EducationLevel: "MBO",
		CourseName:     "ITIL 4 Foundation",
		FollowUpRole:   "Functioneel Beheerder",
		LocationName:   "DUO Groningen",
		Latitude:       coord(53.21),
		Longitude:      coord(6.56),
	},
}

// SeedRoles inserts the sample catalog when the store is empty.
func SeedRoles(ctx context.Context, store domain.RoleStore) error {
	n, err := store.Count(ctx, domain.RoleQuery{})
	if err != nil {
		return fmt.Errorf("count job roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, f := range sampleRoles {
		if _, err := store.Create(ctx, f); err != nil {
			return fmt.Errorf("seed job role %q: %w", f.Title, err)
		}
	}
	log.WithField("count", len(sampleRoles)).Info("seeded sample job roles")
	return nil
}
