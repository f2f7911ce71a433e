package catalog

// Traduction du prédicat composé en requête bool Elasticsearch.
// Une clause = un fragment ; les clauses d'égalité partent en filter
// (pas de scoring, cacheable), le keyword part en must (multi_match).

// SearchBody corps de la requête _search : bool query + tri + fenêtre.
// track_total_hits donne le total exact pour la pagination.
func SearchBody(q Query) map[string]interface{} {
	filters := []interface{}{}
	musts := []interface{}{}

	for _, c := range q.Clauses {
		switch clause := c.(type) {
		case TermClause:
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{clause.Field: clause.Value},
			})
		case RangeClause:
			bounds := map[string]interface{}{}
			if clause.Min != nil {
				bounds["gte"] = *clause.Min
			}
			if clause.Max != nil {
				bounds["lte"] = *clause.Max
			}
			filters = append(filters, map[string]interface{}{
				"range": map[string]interface{}{clause.Field: bounds},
			})
		case AnyTagClause:
			filters = append(filters, map[string]interface{}{
				"terms": map[string]interface{}{"tags": clause.Tags},
			})
		case TextClause:
			musts = append(musts, map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  clause.Keyword,
					"fields": []string{"name^2", "description", "tags"},
				},
			})
		case ActiveClause:
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{"is_active": true},
			})
		case CompanyClause:
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{"company_id": clause.CompanyID.String()},
			})
		}
	}

	boolQuery := map[string]interface{}{}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(musts) > 0 {
		boolQuery["must"] = musts
	}

	body := map[string]interface{}{
		"query":            map[string]interface{}{"bool": boolQuery},
		"from":             q.Skip(),
		"size":             q.Limit,
		"track_total_hits": true,
	}

	if q.Sort.Field != "" {
		order := "desc"
		if q.Sort.Ascending {
			order = "asc"
		}
		body["sort"] = []interface{}{
			map[string]interface{}{esSortField(q.Sort.Field): map[string]interface{}{"order": order}},
			// départage stable, cf. SortProducts
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		}
	}

	return body
}

// esSortField name est un champ text, on trie sur son sous-champ keyword
func esSortField(field string) string {
	if field == "name" {
		return "name.keyword"
	}
	return field
}

// SampleBody tirage aléatoire sans biais côté moteur : random_score avec une
// graine par appel (jamais de cache), limité aux produits visibles acheteur.
func SampleBody(n int, seed int64) map[string]interface{} {
	if n <= 0 {
		n = DefaultSampleSize
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"function_score": map[string]interface{}{
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []interface{}{
							map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
						},
					},
				},
				"random_score": map[string]interface{}{"seed": seed, "field": "_seq_no"},
				"boost_mode":   "replace",
			},
		},
		"size": n,
	}
}
