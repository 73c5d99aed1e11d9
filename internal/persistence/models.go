package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BookingStatusConfirmed is the only status the booking flow ever produces.
const BookingStatusConfirmed = "Confirmed"

// ID identifies a record. Documents written by older deployments carry
// numeric ids while newer records use strings, so decoding accepts both and
// encoding always emits a string.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts either a JSON string or a JSON number. Numbers are
// stored in their shortest decimal form.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("persistence: id must be a string or number: %w", err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

// canonicalNumber spells a JSON number the way JavaScript's String() does for
// ordinary values, so 1, 1.0 and 1e0 all become "1".
func canonicalNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(f, 0) {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseID normalizes a raw identifier taken from a URL path.
func ParseID(raw string) ID {
	return ID(strings.TrimSpace(raw))
}

// User is a registered campus account.
type User struct {
	ID                 ID     `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	FullName           string `json:"fullName"`
	DateOfBirth        string `json:"dateOfBirth"`
	Password           string `json:"password,omitempty"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	Department         string `json:"department"`
	Role               string `json:"role"`
}

// Resource is a bookable campus asset. Available is advisory and never
// consulted by the booking flow.
type Resource struct {
	ID         ID       `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Building   string   `json:"building"`
	Capacity   int      `json:"capacity"`
	Facilities []string `json:"facilities"`
	Available  bool     `json:"available"`
}

// Booking is a reservation of one resource by one user. The user and
// resource display fields are copied at creation time and never refreshed.
type Booking struct {
	ID           ID     `json:"id"`
	UserID       ID     `json:"userId"`
	UserName     string `json:"userName"`
	ResourceID   ID     `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	ResourceType string `json:"resourceType"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Status       string `json:"status"`
	BookedOn     string `json:"bookedOn"`
}

// Document is the aggregate holding every collection.
type Document struct {
	Users     []User     `json:"users"`
	Resources []Resource `json:"resources"`
	Bookings  []Booking  `json:"bookings"`
}

// EmptyDocument returns a document with all collections present and empty.
func EmptyDocument() Document {
	return Document{
		Users:     []User{},
		Resources: []Resource{},
		Bookings:  []Booking{},
	}
}

// Normalize replaces nil collections with empty slices so the document
// always encodes with all three keys as arrays.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Resources == nil {
		d.Resources = []Resource{}
	}
	if d.Bookings == nil {
		d.Bookings = []Booking{}
	}
	for i := range d.Resources {
		if d.Resources[i].Facilities == nil {
			d.Resources[i].Facilities = []string{}
		}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Users:     append([]User(nil), d.Users...),
		Resources: make([]Resource, len(d.Resources)),
		Bookings:  append([]Booking(nil), d.Bookings...),
	}
	for i, resource := range d.Resources {
		resource.Facilities = append([]string(nil), resource.Facilities...)
		out.Resources[i] = resource
	}
	out.Normalize()
	return out
}

// DecodeDocument parses a serialized document and normalizes its collections.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	doc.Normalize()
	return doc, nil
}

// EncodeDocument serializes the document pretty-printed with two-space indentation.
func EncodeDocument(doc Document) ([]byte, error) {
	doc.Normalize()
	return json.MarshalIndent(doc, "", "  ")
}
