package logger

import "testing"

func TestMaskValue_Email(t *testing.T) {
	got := maskValue("contact owner at someone@example.com please")
	if got != "contact owner at *** please" {
		t.Fatalf("expected email masked, got %q", got)
	}
}

func TestMaskValue_BearerToken(t *testing.T) {
	got := maskValue("Authorization: Bearer abc.def-123")
	if got != "Authorization: Bearer ***" {
		t.Fatalf("expected token masked, got %q", got)
	}
}

func TestMaskValue_LeavesNonStrings(t *testing.T) {
	if got := maskValue(42); got != 42 {
		t.Fatalf("expected 42 untouched, got %v", got)
	}
	if got := maskValue(true); got != true {
		t.Fatalf("expected true untouched, got %v", got)
	}
}

func TestMaskField_PIIKeyFullyMasked(t *testing.T) {
	if got := maskField("Authorization", "whatever"); got != "***" {
		t.Fatalf("expected ***, got %v", got)
	}
	if got := maskField("email", "a@b.co"); got != "***" {
		t.Fatalf("expected ***, got %v", got)
	}
	if got := maskField("path", "/shelters"); got != "/shelters" {
		t.Fatalf("expected path untouched, got %v", got)
	}
}
