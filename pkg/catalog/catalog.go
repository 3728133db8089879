// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "activities-service/internal/common/errors"
)

// Load reads, schema-validates, and decodes a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}

	if err := checkInvariants(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}

// Validate checks a raw catalog document against the catalog JSON Schema.
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewCatalogValidationFailedError(err.Error())
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return apperrors.NewCatalogValidationFailedError(strings.Join(msgs, "; "))
	}

	return nil
}

// checkInvariants enforces what JSON Schema cannot express: unique activity
// names, unique roster entries, and rosters within capacity.
func checkInvariants(cat *Catalog) error {
	seenNames := make(map[string]bool, len(cat.Activities))
	for _, act := range cat.Activities {
		if seenNames[act.Name] {
			return apperrors.NewCatalogValidationFailedError(
				fmt.Sprintf("duplicate activity name: %s", act.Name))
		}
		seenNames[act.Name] = true

		seenParticipants := make(map[string]bool, len(act.Participants))
		for _, p := range act.Participants {
			if seenParticipants[p] {
				return apperrors.NewCatalogValidationFailedError(
					fmt.Sprintf("duplicate participant %s in activity %s", p, act.Name))
			}
			seenParticipants[p] = true
		}

		if len(act.Participants) > act.MaxParticipants {
			return apperrors.NewCatalogValidationFailedError(
				fmt.Sprintf("activity %s seeded over capacity (%d > %d)",
					act.Name, len(act.Participants), act.MaxParticipants))
		}
	}
	return nil
}

// Default returns the built-in seed catalog used when no catalog file is
// configured.
func Default() *Catalog {
	return &Catalog{
		Version: "1.0.0",
		Activities: []Activity{
			{
				Name:            "Chess Club",
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
			{
				Name:            "Programming Class",
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			},
			{
				Name:            "Gym Class",
				Description:     "Physical education and sports activities",
				Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
				MaxParticipants: 30,
				Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
			},
		},
	}
}
