package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldNames is the canonical, ordered field set of a voter card record.
// Iteration order is authoritative: it defines both the JSON dump order and
// the render order of the report.
var FieldNames = []string{
	"election_number",
	"name",
	"relation_name",
	"gender",
	"date_of_birth",
	"address",
	"city",
	"state",
	"pincode",
	"electoral_registration_officer",
	"issue_date",
}

// Record is one extracted voter identity document. Every canonical field is
// always present; a field the model could not read is an empty string, never
// absent. Struct field order mirrors FieldNames.
type Record struct {
	ElectionNumber               string `json:"election_number"`
	Name                         string `json:"name"`
	RelationName                 string `json:"relation_name"`
	Gender                       string `json:"gender"`
	DateOfBirth                  string `json:"date_of_birth"`
	Address                      string `json:"address"`
	City                         string `json:"city"`
	State                        string `json:"state"`
	Pincode                      string `json:"pincode"`
	ElectoralRegistrationOfficer string `json:"electoral_registration_officer"`
	IssueDate                    string `json:"issue_date"`
}

// Field returns the value for a canonical field name, and whether the name
// is part of the canonical set. Lookups are total: a canonical field always
// yields a value (possibly "").
func (r Record) Field(name string) (string, bool) {
	switch name {
	case "election_number":
		return r.ElectionNumber, true
	case "name":
		return r.Name, true
	case "relation_name":
		return r.RelationName, true
	case "gender":
		return r.Gender, true
	case "date_of_birth":
		return r.DateOfBirth, true
	case "address":
		return r.Address, true
	case "city":
		return r.City, true
	case "state":
		return r.State, true
	case "pincode":
		return r.Pincode, true
	case "electoral_registration_officer":
		return r.ElectoralRegistrationOfficer, true
	case "issue_date":
		return r.IssueDate, true
	}
	return "", false
}

// SetField overwrites one canonical field. Unknown names are rejected so a
// typo in an edit request can never silently vanish.
func (r *Record) SetField(name, value string) error {
	switch name {
	case "election_number":
		r.ElectionNumber = value
	case "name":
		r.Name = value
	case "relation_name":
		r.RelationName = value
	case "gender":
		r.Gender = value
	case "date_of_birth":
		r.DateOfBirth = value
	case "address":
		r.Address = value
	case "city":
		r.City = value
	case "state":
		r.State = value
	case "pincode":
		r.Pincode = value
	case "electoral_registration_officer":
		r.ElectoralRegistrationOfficer = value
	case "issue_date":
		r.IssueDate = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// FromMap builds a fully populated Record from a decoded flat object.
// Missing canonical fields default to ""; keys outside the canonical set are
// ignored for forward compatibility. Non-string values are ignored too, the
// schema check upstream already flags them.
func FromMap(m map[string]any) Record {
	var r Record
	for _, name := range FieldNames {
		if v, ok := m[name].(string); ok {
			_ = r.SetField(name, strings.TrimSpace(v))
		}
	}
	return r
}

// MarshalOrdered returns the canonical JSON dump of the record with field
// order preserved (struct tag order == FieldNames order).
func (r Record) MarshalOrdered() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// DisplayLabel converts a canonical field name to its report label:
// underscores become spaces and each word is capitalized
// ("election_number" -> "Election Number").
func DisplayLabel(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
