package validation

import "testing"

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)

	want := map[string]string{
		"name":  "required",
		"price": "must_be_positive",
	}
	for field, code := range want {
		if v[field] != code {
			t.Fatalf("%s = %q, want %q", field, v[field], code)
		}
	}
	if v.Empty() {
		t.Fatalf("expected violations")
	}

	ok := Violations{}
	Required("name", "Capone", ok)
	PositiveFloat("price", 38.90, ok)
	if !ok.Empty() {
		t.Fatalf("unexpected violations: %v", ok)
	}
}
