package terceros

import "time"

// ThirdParty is a person or entity tracked by the application.
type ThirdParty struct {
	ID             int64      `json:"id"`
	DocumentType   string     `json:"tipo_doc"`
	DocumentNumber string     `json:"nro_doc"`
	GivenNames     string     `json:"nombres"`
	Surnames       string     `json:"apellidos"`
	BirthDate      *time.Time `json:"fecha_nac,omitempty"`
	Phone          string     `json:"tel"`
	Email          string     `json:"correo"`
	Address        string     `json:"direc"`
	PartyType      string     `json:"tipo"`
	Status         string     `json:"estado"`
}

// SaveInput carries the raw form values of a save request. ID selects the
// branch: empty inserts, anything else updates the matching row.
type SaveInput struct {
	ID             string
	DocumentType   string
	DocumentNumber string
	GivenNames     string
	Surnames       string
	BirthDate      string
	Phone          string
	Email          string
	Address        string
	PartyType      string
	Status         string
}

// SaveResult reports what a save did.
type SaveResult struct {
	ID       int64
	Created  bool
	Affected int64
}
