package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Industrial Water Pump": "industrial-water-pump",
		"  Widget  ":            "widget",
		"A   B\tC":               "a-b-c",
		"déjà-vu":               "déjà-vu",
		"UPPER":                 "upper",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	if Slugify("Steel Rods") != Slugify("Steel Rods") {
		t.Fatal("le slug doit être dérivé de façon déterministe")
	}
}

// Un renommage qui ne change que la casse ou les espaces conserve le slug.
// UpdateProduct s'appuie dessus pour ne pas rejouer la réservation d'unicité
// (sinon le produit entrerait en collision avec sa propre ligne et le
// renommage serait rejeté à tort).
func TestSlugifyStableUnderCaseAndSpacing(t *testing.T) {
	pairs := [][2]string{
		{"Widget", "widget"},
		{"Steel  Rods", "Steel Rods"},
		{"  Pump ", "PUMP"},
	}
	for _, pr := range pairs {
		if Slugify(pr[0]) != Slugify(pr[1]) {
			t.Errorf("Slugify(%q) = %q doit égaler Slugify(%q) = %q",
				pr[0], Slugify(pr[0]), pr[1], Slugify(pr[1]))
		}
	}
}
