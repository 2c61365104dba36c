// Package search answers incident queries against the document index. A
// query is embedded once and sent as a single hybrid request combining a
// keyword clause over the text fields with one nearest-neighbor clause per
// vector field; score fusion happens inside the index. Results come back
// with vector and non-scalar fields stripped.
package search
