package submission_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/submission"
)

func TestFormDataWithReplacesSingleField(t *testing.T) {
	base := submission.FormData{
		ClientName:           "a",
		SubaccountToken:      "b",
		SubaccountLocationID: "c",
		SubaccountCalendarID: "d",
	}

	for _, field := range submission.Fields() {
		t.Run(string(field), func(t *testing.T) {
			next, err := base.With(field, "updated")
			if err != nil {
				t.Fatalf("with: %v", err)
			}
			for _, other := range submission.Fields() {
				want := base.Get(other)
				if other == field {
					want = "updated"
				}
				if got := next.Get(other); got != want {
					t.Fatalf("field %s: want %q, got %q", other, want, got)
				}
			}
		})
	}
}

func TestFormDataWithRejectsUnknownField(t *testing.T) {
	base := submission.FormData{ClientName: "a"}
	next, err := base.With(submission.Field("email"), "x")
	if !errors.Is(err, submission.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if diff := cmp.Diff(base, next); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}
}

func TestFormDataJSONHasExactlyFourKeys(t *testing.T) {
	payload, err := json.Marshal(submission.FormData{ClientName: "Acme"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"clientName":           "Acme",
		"subaccountToken":      "",
		"subaccountLocationId": "",
		"subaccountCalendarId": "",
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestFormDataMissingAndComplete(t *testing.T) {
	form := submission.FormData{ClientName: "Acme", SubaccountCalendarID: "cal"}
	want := []submission.Field{submission.FieldSubaccountToken, submission.FieldSubaccountLocationID}
	if diff := cmp.Diff(want, form.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if form.Complete() {
		t.Fatalf("expected incomplete form")
	}
}

func TestParseField(t *testing.T) {
	for _, name := range submission.FieldNames() {
		if _, ok := submission.ParseField(name); !ok {
			t.Fatalf("expected %q to be recognized", name)
		}
	}
	if _, ok := submission.ParseField("clientname"); ok {
		t.Fatalf("field names are case sensitive")
	}
}

func TestFormDataRedacted(t *testing.T) {
	form := submission.FormData{SubaccountToken: "secret", ClientName: "Acme"}
	redacted := form.Redacted()
	if redacted.SubaccountToken == "secret" {
		t.Fatalf("token not redacted")
	}
	if redacted.ClientName != "Acme" {
		t.Fatalf("other fields must be preserved")
	}
	if (submission.FormData{}).Redacted().SubaccountToken != "" {
		t.Fatalf("empty token must stay empty")
	}
}
