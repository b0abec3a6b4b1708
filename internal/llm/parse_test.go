package llm

import (
	"errors"
	"testing"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
)

func TestParseRecordSubsetDefaults(t *testing.T) {
	rec, err := ParseRecord(`{"name": "ASHA RAO", "city": "Mysuru"}`, nil)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if rec.Name != "ASHA RAO" {
		t.Errorf("Name = %q, want ASHA RAO", rec.Name)
	}
	if rec.City != "Mysuru" {
		t.Errorf("City = %q, want Mysuru", rec.City)
	}
	if rec.ElectionNumber != "" || rec.Pincode != "" {
		t.Errorf("absent fields should default to empty, got %q / %q", rec.ElectionNumber, rec.Pincode)
	}
}

func TestParseRecordMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"not json",
		`{"name": "truncated`,
		`["a", "b"]`,
		"null",
	} {
		_, err := ParseRecord(in, nil)
		if !errors.Is(err, common.ErrMalformed) {
			t.Errorf("ParseRecord(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

func TestParseRecordNullReply(t *testing.T) {
	// "null" decodes into a nil map with no error, so it must be rejected
	// explicitly; an all-empty record here is never a successful parse.
	rec, err := ParseRecord("null", nil)
	if !errors.Is(err, common.ErrMalformed) {
		t.Fatalf("ParseRecord(\"null\") error = %v, want ErrMalformed", err)
	}
	if rec != (entity.Record{}) {
		t.Errorf("record = %+v, want zero value", rec)
	}
}

func TestParseRecordIgnoresUnknownKeys(t *testing.T) {
	rec, err := ParseRecord(`{"name": "ASHA RAO", "confidence": "high", "card_color": "blue"}`, nil)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if rec.Name != "ASHA RAO" {
		t.Errorf("Name = %q, want ASHA RAO", rec.Name)
	}
}

func TestParseRecordNonStringValueDropped(t *testing.T) {
	rec, err := ParseRecord(`{"name": "ASHA RAO", "pincode": 570001}`, nil)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if rec.Pincode != "" {
		t.Errorf("Pincode = %q, want empty for non-string value", rec.Pincode)
	}
	if rec.Name != "ASHA RAO" {
		t.Errorf("Name = %q, want ASHA RAO", rec.Name)
	}
}

func TestSanitizeThenParseFencedReply(t *testing.T) {
	raw := "```json\n{\"name\": \"ASHA RAO\", \"gender\": \"Female\"}\n```"
	rec, err := ParseRecord(Sanitize(raw), nil)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if rec.Name != "ASHA RAO" || rec.Gender != "Female" {
		t.Errorf("got Name=%q Gender=%q", rec.Name, rec.Gender)
	}
}
