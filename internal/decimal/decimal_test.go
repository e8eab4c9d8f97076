package decimal

import "testing"

func TestParseAndString(t *testing.T) {
	cases := map[string]string{
		"50000":      "50000",
		"50000.00":   "50000",
		"0.5":        "0.5",
		"0.50000000": "0.5",
		"0":          "0",
		"0.0":        "0",
		"1.00010":    "1.0001",
	}
	for in, want := range cases {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := d.String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", in, got, want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "--1"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseOutOfDomain(t *testing.T) {
	tooManyIntegerDigits := "1000000000000000000" // 19 digits
	if _, err := Parse(tooManyIntegerDigits); err == nil {
		t.Errorf("expected rejection of %q", tooManyIntegerDigits)
	}
	tooManyFractionalDigits := "1.123456789"
	if _, err := Parse(tooManyFractionalDigits); err == nil {
		t.Errorf("expected rejection of %q", tooManyFractionalDigits)
	}
}

func TestArithmeticExact(t *testing.T) {
	price := MustParse("50000")
	amount := MustParse("0.5")
	volume := price.Mul(amount)
	if volume.String() != "25000" {
		t.Errorf("volume = %s, want 25000", volume.String())
	}

	rate := MustParse("0.001")
	fee := volume.Mul(rate)
	if fee.String() != "25" {
		t.Errorf("fee = %s, want 25", fee.String())
	}
}

func TestCompareAndMin(t *testing.T) {
	a := MustParse("1.5")
	b := MustParse("2")
	if !a.LessThan(b) {
		t.Error("expected 1.5 < 2")
	}
	if !b.GreaterThan(a) {
		t.Error("expected 2 > 1.5")
	}
	if Min(a, b) != a {
		t.Error("Min(1.5, 2) should be 1.5")
	}
	if !MustParse("1.50").Equal(MustParse("1.5")) {
		t.Error("1.50 should equal 1.5")
	}
}

func TestIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() should be true")
	}
	if !MustParse("0.0").IsZero() {
		t.Error("0.0 should be zero")
	}
}
