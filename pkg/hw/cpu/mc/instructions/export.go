package instructions

import (
	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// Serializable summary of an instruction form
type FormInfo struct {
	Mnemonic string            `yaml:"mnemonic"`
	Kind     string            `yaml:"kind"`
	Match    string            `yaml:"match"`
	Mask     string            `yaml:"mask"`
	Fields   string            `yaml:"fields"`
	Bound    map[string]uint32 `yaml:"bound"`
	Operands []string          `yaml:"operands,omitempty"`
}

// Returns a serializable summary of every instruction form in the catalog
func (c *Catalog) Export() []FormInfo {
	var result []FormInfo

	for _, entry := range c.entries {
		for _, form := range entry.Forms() {
			bound := make(map[string]uint32, len(form.Descriptor.BoundFields()))
			for _, b := range form.Descriptor.BoundFields() {
				bound[b.Field.Name()] = b.Value
			}

			result = append(result, FormInfo{
				Mnemonic: form.Mnemonic,
				Kind:     entry.Kind.String(),
				Match:    utils.FormatUintHex(uint64(form.Descriptor.EncodeBound()), 8),
				Mask:     utils.FormatUintHex(uint64(form.Descriptor.BoundMask()), 8),
				Fields:   utils.FormatUintHex(uint64(form.Descriptor.Mask()), 8),
				Bound:    bound,
				Operands: utils.Map(form.Descriptor.Operands(), (*fields.WordField).Name),
			})
		}
	}

	return result
}
