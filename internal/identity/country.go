package identity

import "jobeval/internal/evaluation/ports"

// Country is a country of record. It serves as its own provider so a
// validator can hand it out directly.
type Country string

var (
	_ ports.CountryDataProvider = Country("")
	_ ports.CountryData         = Country("")
)

func (c Country) CountryData() ports.CountryData { return c }

func (c Country) Country() string { return string(c) }
