package pageplan

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 4}, {0, 4}, {2, 4}, {4, 4}, {6, 6}, {9, 9}, {15, 9},
	}
	for _, tc := range tests {
		if got := Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPlan(t *testing.T) {
	got := Plan(2)
	want := []string{"index", "about", "services", "products"}
	if len(got) != len(want) {
		t.Fatalf("Plan(2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Plan(2)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	full := Plan(15)
	if len(full) != 9 || full[0] != "index" || full[8] != "faq" {
		t.Errorf("Plan(15) = %v", full)
	}
}

func TestPlanDoesNotAliasCatalog(t *testing.T) {
	p := Plan(4)
	p[0] = "changed"
	if Catalog[0] != "index" {
		t.Error("Plan result shares storage with Catalog")
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"index":   "Index",
		"faq":     "Faq",
		"":        "",
		"Already": "Already",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilenameAndName(t *testing.T) {
	if got := Filename("pricing"); got != "pricing.html" {
		t.Errorf("Filename = %q", got)
	}
	if got := Name("pricing.html"); got != "pricing" {
		t.Errorf("Name = %q", got)
	}
}
