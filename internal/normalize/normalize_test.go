package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  John.DOE@Example.COM  "
	want := "John.DOE@Example.COM"
	got := Email(in)
	if got != want {
		t.Fatalf("Normalize.Email(%q) = %q, want %q", in, got, want)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@x.com", "bob.smith+tag@mail.example.org", "carol_d@sub-domain.io"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Fatalf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "alice", "alice@x", "alice@x.c", "a,b@x.com", "alice@@x.com", "al ice@x.com"}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Fatalf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}
