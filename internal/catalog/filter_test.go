package catalog

import (
	"errors"
	"testing"
)

func TestBuildQueryDefaults(t *testing.T) {
	q, err := BuildQuery(Params{})
	if err != nil {
		t.Fatalf("BuildQuery vide: %v", err)
	}
	if len(q.Clauses) != 0 {
		t.Errorf("paramètres absents ne doivent produire aucune clause, got %d", len(q.Clauses))
	}
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("pagination par défaut attendue page=1 limit=10, got %d/%d", q.Page, q.Limit)
	}
	if q.Sort.Field != "created_at" || q.Sort.Ascending {
		t.Errorf("tri par défaut attendu created_at desc, got %+v", q.Sort)
	}
}

func TestBuildQueryAllParams(t *testing.T) {
	q, err := BuildQuery(Params{
		Keyword:  "pump",
		Category: "machinery",
		MinPrice: "100",
		MaxPrice: "500",
		Tags:     "steel,industrial",
		City:     "Pune",
		Sort:     "price",
		Page:     "3",
		Limit:    "25",
	})
	if err != nil {
		t.Fatalf("BuildQuery: %v", err)
	}
	if len(q.Clauses) != 5 {
		t.Fatalf("5 clauses attendues, got %d", len(q.Clauses))
	}
	if q.Page != 3 || q.Limit != 25 {
		t.Errorf("page/limit: got %d/%d", q.Page, q.Limit)
	}
	if q.Skip() != 50 {
		t.Errorf("skip = (page-1)*limit = 50, got %d", q.Skip())
	}
	if q.Sort.Field != "price" || !q.Sort.Ascending {
		t.Errorf("tri price asc attendu, got %+v", q.Sort)
	}
}

func TestBuildQueryValidation(t *testing.T) {
	bad := []Params{
		{MinPrice: "abc"},
		{MaxPrice: "12x"},
		{MinPrice: "-5"},
		{MaxPrice: "-0.01"},
		{Page: "0"},
		{Page: "-1"},
		{Page: "deux"},
		{Limit: "0"},
		{Limit: "nope"},
		{Sort: "stock"},
	}
	for _, p := range bad {
		if _, err := BuildQuery(p); !errors.Is(err, ErrValidation) {
			t.Errorf("ErrValidation attendue pour %+v, got %v", p, err)
		}
	}
}

func TestBuildQueryPriceBounds(t *testing.T) {
	q, err := BuildQuery(Params{MinPrice: "10"})
	if err != nil {
		t.Fatal(err)
	}
	rc, ok := q.Clauses[0].(RangeClause)
	if !ok {
		t.Fatalf("RangeClause attendue, got %T", q.Clauses[0])
	}
	if rc.Min == nil || *rc.Min != 10 || rc.Max != nil {
		t.Errorf("borne min seule attendue, got %+v", rc)
	}

	q, err = BuildQuery(Params{MinPrice: "10", MaxPrice: "20"})
	if err != nil {
		t.Fatal(err)
	}
	rc = q.Clauses[0].(RangeClause)
	if rc.Min == nil || rc.Max == nil || *rc.Min != 10 || *rc.Max != 20 {
		t.Errorf("intervalle fermé [10,20] attendu, got %+v", rc)
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" steel , , industrial,steel ,")
	if len(got) != 2 || got[0] != "steel" || got[1] != "industrial" {
		t.Errorf("trim + dédoublonnage attendus, got %v", got)
	}
	if splitTags(" , ,") != nil {
		t.Errorf("que des vides → aucune clause tag")
	}
}

func TestPages(t *testing.T) {
	q := Query{Page: 1, Limit: 10}
	cases := map[int]int{0: 0, 1: 1, 10: 1, 11: 2, 15: 2, 20: 2, 21: 3}
	for total, want := range cases {
		if got := q.Pages(total); got != want {
			t.Errorf("Pages(%d) = %d, want %d", total, got, want)
		}
	}
}
