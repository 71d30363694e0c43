package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name   string
		in     Params
		expect Params
	}{
		{"defaults", Params{}, Params{Page: 1, Limit: DefaultLimit}},
		{"negative page", Params{Page: -3, Limit: 10}, Params{Page: 1, Limit: 10}},
		{"limit capped", Params{Page: 2, Limit: 10000}, Params{Page: 2, Limit: MaxLimit}},
		{"passthrough", Params{Page: 4, Limit: 25}, Params{Page: 4, Limit: 25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.expect {
				t.Fatalf("expected %+v, got %+v", tc.expect, got)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 20}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for first page, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 20}).Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for zero params, got %d", got)
	}
}
