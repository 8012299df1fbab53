package ir

import "fmt"

// EnumMember is one named, ordinal-numbered member of an Enum descriptor.
type EnumMember struct {
	Name    string
	Ordinal int
}

// Enum describes an enumeration type: its qualified name and members, so
// that a scalar node's EnumOrdinal/String fields can be validated and
// round-tripped by name (spec.md §4.1: "enumeration ← member by name, by
// fully-qualified name, or by ordinal integer").
type Enum struct {
	Name    string
	Members []EnumMember
}

// ByName looks up a member by its bare or fully-qualified name.
func (e *Enum) ByName(name string) (EnumMember, bool) {
	qualified := e.Name + "." + name
	for _, m := range e.Members {
		if m.Name == name || qualified == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// ByOrdinal looks up a member by its integer ordinal.
func (e *Enum) ByOrdinal(ord int) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Ordinal == ord {
			return m, true
		}
	}
	return EnumMember{}, false
}

// FromEnum returns a scalar node for member of enumeration typ. Enum nodes
// always round-trip by fully-qualified name on output (SPEC_FULL.md
// supplemented feature 7, from OmegaConf's nodes.py:EnumNode).
func FromEnum(typ *Enum, member EnumMember) *Node {
	return &Node{
		Type:        EnumType,
		Declared:    EnumType,
		String:      member.Name,
		EnumOrdinal: member.Ordinal,
		EnumT:       typ,
	}
}

// QualifiedName returns "Enum.Member" for a resolved enum scalar.
func (n *Node) QualifiedName() string {
	if n.Type != EnumType || n.EnumT == nil {
		return n.String
	}
	return fmt.Sprintf("%s.%s", n.EnumT.Name, n.String)
}
