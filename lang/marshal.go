package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler.
func (n *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// ToMap converts the program into a tree of generic maps and slices, keyed
// by field name, with a "type" entry naming each node.
func (n *Program) ToMap() map[string]any {
	content := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		content = append(content, nodeMap(c))
	}

	return map[string]any{
		"type":    nodeType(n),
		"content": content,
	}
}

func nodeMap(n Node) map[string]any {
	m := map[string]any{"type": nodeType(n)}

	switch n := n.(type) {
	case *Text:
		m["value"] = n.Value

	case *ExpressionList:
		stmts := make([]any, 0, len(n.Statements))
		for _, s := range n.Statements {
			stmts = append(stmts, nodeMap(s))
		}

		m["statements"] = stmts

	case *Assign:
		m["name"] = n.Name
		m["value"] = nodeMap(n.Value)

	case *If:
		m["condition"] = nodeMap(n.Cond)
		m["body"] = nodeMap(n.Body)

	case *For:
		m["variable"] = n.Var
		m["iterator"] = nodeMap(n.Iter)
		m["body"] = nodeMap(n.Body)

	case *Print:
		m["value"] = nodeMap(n.Value)

	case *StringExpr:
		ops := make([]any, 0, len(n.Operands))
		for _, op := range n.Operands {
			ops = append(ops, nodeMap(op))
		}

		m["operands"] = ops

	case *ArithExpr:
		m["operator"] = n.Op.String()
		m["left"] = nodeMap(n.Left)
		m["right"] = nodeMap(n.Right)

	case *BoolExpr:
		m["operator"] = n.Op.String()
		m["left"] = nodeMap(n.Left)
		m["right"] = nodeMap(n.Right)

	case *Variable:
		m["name"] = n.Name

	case *Literal:
		m["kind"] = n.Value.Kind().String()
		m["value"] = n.Value.Native()
	}

	return m
}

// nodeType returns the name of n's node variant.
func nodeType(n Node) string {
	switch n.(type) {
	case *Program:
		return "Program"
	case *Text:
		return "Text"
	case *ExpressionList:
		return "ExpressionList"
	case *Assign:
		return "Assign"
	case *If:
		return "If"
	case *For:
		return "For"
	case *Print:
		return "Print"
	case *StringExpr:
		return "StringExpr"
	case *ArithExpr:
		return "ArithExpr"
	case *BoolExpr:
		return "BoolExpr"
	case *Variable:
		return "Variable"
	case *Literal:
		return "Literal"
	default:
		return "Unknown"
	}
}
