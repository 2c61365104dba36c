package elastic

import "github.com/opsgrid/faultline/store"

// searchBody renders a store.SearchRequest as an Elasticsearch request
// body. Score fusion between the query and knn sections is left to the
// cluster's native hybrid ranking.
func searchBody(req *store.SearchRequest) map[string]any {
	body := make(map[string]any)

	if req.Keyword != nil {
		body["query"] = map[string]any{
			"multi_match": map[string]any{
				"query":    req.Keyword.Query,
				"fields":   req.Keyword.Fields,
				"type":     "cross_fields",
				"operator": "and",
			},
		}
	}

	if len(req.KNN) > 0 {
		clauses := make([]map[string]any, len(req.KNN))
		for i, knn := range req.KNN {
			clauses[i] = map[string]any{
				"field":          knn.Field,
				"query_vector":   knn.Vector,
				"k":              knn.K,
				"num_candidates": knn.NumCandidates,
			}
		}
		body["knn"] = clauses
	}

	return body
}
