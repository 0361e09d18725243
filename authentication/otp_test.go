package authentication

import "testing"

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		otp := GenerateOTP(6)
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in otp %q", otp)
			}
		}
		seen[otp] = true
	}
	// 20 draws from a million values colliding down to one would mean a
	// broken generator
	if len(seen) < 2 {
		t.Fatalf("generator produced a single value across 20 draws")
	}
}

func TestValidateOTP(t *testing.T) {
	cases := []struct {
		stored    string
		submitted string
		valid     bool
	}{
		{stored: "123456", submitted: "123456", valid: true},
		{stored: "123456", submitted: "654321", valid: false},
		{stored: "", submitted: "", valid: false},
		{stored: "123456", submitted: "", valid: false},
	}

	for _, c := range cases {
		if got := ValidateOTP(c.stored, c.submitted); got != c.valid {
			t.Fatalf("ValidateOTP(%q, %q): expected %v, got %v", c.stored, c.submitted, c.valid, got)
		}
	}
}
