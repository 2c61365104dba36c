package store

// KeywordClause is a lexical clause requiring all query terms to match
// across the union of the listed fields (cross-field AND semantics). A
// document is not a keyword candidate unless the conjunction of all terms
// is satisfiable across the fields jointly.
type KeywordClause struct {
	Query  string
	Fields []string
}

// KNNClause is a nearest-neighbor clause over a single vector field. It
// requests the K nearest neighbors out of a candidate pool of NumCandidates.
type KNNClause struct {
	Field         string
	Vector        []float32
	K             int
	NumCandidates int
}

// SearchRequest is one combined request to the document store. Keyword is
// nil in vector-only mode; KNN is empty in keyword-only mode. Score fusion
// across clauses is delegated to the store.
type SearchRequest struct {
	Keyword *KeywordClause
	KNN     []KNNClause
	Size    int
}

// Hit is one ranked document returned from a search, with its raw source
// fields. Vector stripping happens in the search layer, not here.
type Hit struct {
	IncidentID string
	Score      float64
	Source     map[string]any
}
