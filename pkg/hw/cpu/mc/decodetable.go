package mc

import (
	"cmp"
	"slices"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/instructions"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// A complete instruction form stored in the decode table
type DecodeCandidate struct {
	instructions.Form
	// Position of the form in the catalog, used to break ties
	Order int
}

// Sub-tables selected by the value of a field
type DecodeBranch struct {
	Field    *fields.WordField
	Children map[uint32]*DecodeNode
}

// A decode table node. Forms whose bound fields end at this node are stored as
// candidates, forms with more bound fields continue through the branches. A node
// can have both, and can branch on different fields
type DecodeNode struct {
	Candidates []DecodeCandidate
	Branches   []*DecodeBranch
}

func (n *DecodeNode) branch(field *fields.WordField) *DecodeBranch {
	for _, b := range n.Branches {
		if b.Field == field {
			return b
		}
	}

	b := &DecodeBranch{Field: field, Children: make(map[uint32]*DecodeNode)}
	n.Branches = append(n.Branches, b)
	return b
}

func (n *DecodeNode) child(field *fields.WordField, value uint32) *DecodeNode {
	b := n.branch(field)

	node, ok := b.Children[value]
	if !ok {
		node = &DecodeNode{}
		b.Children[value] = node
	}

	return node
}

// Appends the candidates of this node and of every sub-table consistent with the word
func (n *DecodeNode) collect(word uint32, result []DecodeCandidate) []DecodeCandidate {
	result = append(result, n.Candidates...)

	for _, b := range n.Branches {
		if node, ok := b.Children[b.Field.Raw(word)]; ok {
			result = node.collect(word, result)
		}
	}

	return result
}

// Maps raw words back to instruction forms, indexing every complete form of a
// catalog by the values of its bound fields. Read only once built
type DecodeTable struct {
	root  DecodeNode
	forms int
}

// Builds the decode table of a catalog
func NewDecodeTable(catalog *instructions.Catalog) *DecodeTable {
	t := &DecodeTable{}

	for order, form := range catalog.Forms() {
		node := &t.root

		for _, b := range form.Descriptor.BoundFields() {
			node = node.child(b.Field, b.Value)
		}

		node.Candidates = append(node.Candidates, DecodeCandidate{Form: form, Order: order})
		t.forms++
	}

	return t
}

// Returns the root of the table, which branches on the opcode
func (t *DecodeTable) Root() *DecodeNode {
	return &t.root
}

// Returns the number of forms indexed by the table
func (t *DecodeTable) Size() int {
	return t.forms
}

// Returns every form whose bound fields match the word and that leaves no bit of
// the word outside its fields, in catalog order
func (t *DecodeTable) Candidates(word uint32) []DecodeCandidate {
	candidates := slices.DeleteFunc(t.root.collect(word, nil), func(c DecodeCandidate) bool {
		return word&^c.Descriptor.Mask() != 0
	})

	slices.SortFunc(candidates, func(a, b DecodeCandidate) int {
		return cmp.Compare(a.Order, b.Order)
	})

	return candidates
}

// Returns the form a word decodes to. When several forms match, the one with fewer
// operands wins (so pseudo instructions like nop or move are preferred), and then
// the first one in catalog order
func (t *DecodeTable) Lookup(word uint32) (DecodeCandidate, error) {
	candidates := t.Candidates(word)

	best := utils.MinIndexBy(candidates, func(c DecodeCandidate) int {
		return len(c.Descriptor.Operands())
	})

	if best < 0 {
		return DecodeCandidate{}, utils.MakeError(cpu.ErrInvalidInstruction, "%v", utils.FormatUintHex(uint64(word), 8))
	}

	return candidates[best], nil
}
