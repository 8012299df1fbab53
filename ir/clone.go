package ir

// Clone deep-copies n, detaching the copy from any parent. Moving a Node
// into a second parent requires detaching it first (spec.md §3 Ownership);
// Clone is how the merge engine, the access API, and path navigation obtain
// a detached copy before re-parenting it or handing it to a caller.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Type:        n.Type,
		Declared:    n.Declared,
		Optional:    n.Optional,
		Bool:        n.Bool,
		Int:         n.Int,
		Float:       n.Float,
		String:      n.String,
		EnumOrdinal: n.EnumOrdinal,
		EnumT:       n.EnumT,
		Schema:      n.Schema,
		KeyDeclared: n.KeyDeclared,
		KeyEnumT:    n.KeyEnumT,
		flags:       n.flags,
	}
	if n.Bytes != nil {
		c.Bytes = append([]byte(nil), n.Bytes...)
	}
	if n.ElemDeclared != nil {
		d := *n.ElemDeclared
		c.ElemDeclared = &d
	}
	if n.Union != nil {
		c.Union = append([]Type(nil), n.Union...)
	}
	if n.Type == MapType {
		c.Fields = make([]*Node, len(n.Fields))
		c.Values = make([]*Node, len(n.Values))
		for i := range n.Fields {
			c.Fields[i] = n.Fields[i].Clone()
			c.Values[i] = n.Values[i].Clone()
			attach(c, c.Values[i], keyString(c.Fields[i]), -1)
		}
	}
	if n.Type == ListType {
		c.Values = make([]*Node, len(n.Values))
		for i := range n.Values {
			c.Values[i] = n.Values[i].Clone()
			attach(c, c.Values[i], "", i)
		}
	}
	return c
}

// VisitFunc is called once for each node in a pre-order, and optionally
// once more in post-order (isPost == true) when fn returns
// (continueInto=true, nil) on the pre-order call. Returning an error aborts
// the walk.
type VisitFunc func(node *Node, isPost bool) (bool, error)

// Visit walks n and its descendants, pre-order then (for containers that
// were descended into) post-order, grounded on the teacher's
// ir.Node.Visit/listPath traversal shape.
func (n *Node) Visit(fn VisitFunc) error {
	descend, err := fn(n, false)
	if err != nil {
		return err
	}
	if descend && n.Type.IsContainer() {
		children := n.Values
		for _, c := range children {
			if err := c.Visit(fn); err != nil {
				return err
			}
		}
		if _, err := fn(n, true); err != nil {
			return err
		}
	}
	return nil
}
