package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func bodyJSON(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSearchBodyComposition(t *testing.T) {
	q, err := BuildQuery(Params{
		Keyword:  "pump",
		Category: "machinery",
		MinPrice: "100",
		MaxPrice: "500",
		Tags:     "steel,export",
		City:     "Pune",
		Page:     "2",
		Limit:    "10",
	})
	if err != nil {
		t.Fatal(err)
	}
	ApplyVisibility(&q, Buyer())

	body := SearchBody(q)
	js := bodyJSON(t, body)

	for _, fragment := range []string{
		`"term":{"category":"machinery"}`,
		`"range":{"price":{"gte":100,"lte":500}}`,
		`"terms":{"tags":["steel","export"]}`,
		`"term":{"location.city":"Pune"}`,
		`"multi_match"`,
		`"term":{"is_active":true}`,
		`"track_total_hits":true`,
	} {
		if !strings.Contains(js, fragment) {
			t.Errorf("fragment manquant dans le corps: %s\n%s", fragment, js)
		}
	}

	if body["from"] != 10 || body["size"] != 10 {
		t.Errorf("fenêtre from=10 size=10 attendue, got from=%v size=%v", body["from"], body["size"])
	}
}

func TestSearchBodySortTieBreak(t *testing.T) {
	q, _ := BuildQuery(Params{})
	ApplyVisibility(&q, Buyer())
	js := bodyJSON(t, SearchBody(q))

	if !strings.Contains(js, `"created_at":{"order":"desc"}`) {
		t.Errorf("tri par défaut -createdAt manquant: %s", js)
	}
	if !strings.Contains(js, `"id":{"order":"asc"}`) {
		t.Errorf("départage id croissant manquant: %s", js)
	}
}

func TestSearchBodyRelevanceSort(t *testing.T) {
	q, _ := BuildQuery(Params{Keyword: "pump", Sort: "relevance"})
	body := SearchBody(q)
	if _, present := body["sort"]; present {
		t.Error("sort=relevance laisse le classement au score Elastic")
	}
}

func TestSearchBodyNameSortUsesKeyword(t *testing.T) {
	q, _ := BuildQuery(Params{Sort: "name"})
	js := bodyJSON(t, SearchBody(q))
	if !strings.Contains(js, `"name.keyword"`) {
		t.Errorf("tri sur le sous-champ keyword attendu: %s", js)
	}
}

func TestSearchBodyNoSpuriousClauses(t *testing.T) {
	// paramètres absents → seul le filtre de visibilité
	q, _ := BuildQuery(Params{})
	ApplyVisibility(&q, Buyer())
	body := SearchBody(q)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	if len(filters) != 1 {
		t.Fatalf("une seule clause (visibilité) attendue, got %d", len(filters))
	}
	if _, present := boolQuery["must"]; present {
		t.Error("pas de must sans keyword")
	}
}

func TestSampleBody(t *testing.T) {
	body := SampleBody(12, 99)
	js := bodyJSON(t, body)

	if body["size"] != 12 {
		t.Errorf("size 12 attendu, got %v", body["size"])
	}
	for _, fragment := range []string{`"random_score"`, `"seed":99`, `"term":{"is_active":true}`} {
		if !strings.Contains(js, fragment) {
			t.Errorf("fragment manquant: %s\n%s", fragment, js)
		}
	}

	if SampleBody(0, 1)["size"] != DefaultSampleSize {
		t.Error("taille par défaut attendue")
	}
}
