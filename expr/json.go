package expr

import "encoding/json"

// ============================================================
// JSON Serialization
// ============================================================

// Tree returns the expression as nested maps keyed by "type".
func Tree(e Expr) map[string]interface{} { return e.tree() }

// ToJSON encodes the expression tree.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.tree())
	return string(b), err
}
