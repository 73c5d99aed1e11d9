package persistence

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string", input: `"abc"`, want: "abc"},
		{name: "integer", input: `4`, want: "4"},
		{name: "large integer", input: `1730000000000`, want: "1730000000000"},
		{name: "trailing zero fraction", input: `1.0`, want: "1"},
		{name: "exponent", input: `1e0`, want: "1"},
		{name: "large exponent", input: `2.5e3`, want: "2500"},
		{name: "fraction", input: `1.5`, want: "1.5"},
		{name: "negative zero fraction", input: `-3.00`, want: "-3"},
		{name: "null", input: `null`, want: ""},
		{name: "boolean", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, id)
			}
		})
	}
}

func TestDecodeDocumentNormalizes(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"resources":[{"id":1,"name":"Hall"}]}`))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if doc.Users == nil || doc.Bookings == nil {
		t.Fatalf("expected missing collections to be empty slices")
	}
	if doc.Resources[0].ID != "1" || doc.Resources[0].Facilities == nil {
		t.Fatalf("unexpected resource %#v", doc.Resources[0])
	}

	if _, err := DecodeDocument([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for non-object document")
	}
}

func TestEncodeDocument(t *testing.T) {
	data, err := EncodeDocument(Document{Resources: []Resource{{ID: "1", Name: "Hall"}}})
	if err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"{\n  \"users\": [],",
		"\n  \"bookings\": []\n}",
		"\"id\": \"1\"",
		"\"facilities\": []",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in encoded document:\n%s", want, out)
		}
	}
}

func TestDocumentClone(t *testing.T) {
	doc := EmptyDocument()
	doc.Resources = SeedResources()

	clone := doc.Clone()
	clone.Resources[0].Facilities[0] = "changed"
	clone.Resources[0].Name = "changed"

	if doc.Resources[0].Facilities[0] == "changed" || doc.Resources[0].Name == "changed" {
		t.Fatalf("expected clone to be independent of the original")
	}
}

func TestUserPasswordOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(User{ID: "u-1"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "password") {
		t.Fatalf("expected empty password omitted, got %s", data)
	}
}

func TestNumericIDSpellingsMatchSeedIDs(t *testing.T) {
	doc := Document{Resources: SeedResources()}

	for _, raw := range []string{`1`, `1.0`, `1e0`, `"1"`} {
		var id ID
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", raw, err)
		}
		if _, _, ok := FindResource(doc, id); !ok {
			t.Fatalf("expected %s to find seed resource 1, decoded as %q", raw, id)
		}
	}
}
