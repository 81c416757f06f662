package instructions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu/mc/fields"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

// Returns the bit layout of the descriptor, sorted by bit position
func (d *InstructionDescriptor) Layout() []utils.AsciiFrameField {
	frameField := func(field *fields.WordField, name string) utils.AsciiFrameField {
		return utils.AsciiFrameField{
			Name:  name,
			Begin: field.Shift(),
			Width: field.Type().Width(),
		}
	}

	var layout []utils.AsciiFrameField

	for _, b := range d.boundFields {
		layout = append(layout, frameField(b.Field, utils.FormatUintBinary(uint64(b.Value), b.Field.Type().Width())))
	}

	for _, u := range d.unboundFields {
		layout = append(layout, frameField(u.Field, fmt.Sprintf("<%v>", u.Field.Name())))
	}

	for _, operand := range d.operands {
		layout = append(layout, frameField(operand, operand.Name()))
	}

	slices.SortFunc(layout, func(a, b utils.AsciiFrameField) int {
		return a.Begin - b.Begin
	})

	return layout
}

// Returns a human readable description of the form, including its bit layout
func (f Form) Documentation(leftpad int) (string, error) {
	var builder strings.Builder
	leftpadStr := strings.Repeat(" ", leftpad)

	builder.WriteString(leftpadStr)
	builder.WriteString(f.Mnemonic)
	if len(f.Descriptor.Operands()) > 0 {
		builder.WriteString(" ")
		builder.WriteString(utils.FormatSlice(f.Descriptor.Operands(), ", "))
	}
	builder.WriteString("\n\n")

	frame, err := utils.AsciiFrame(f.Descriptor.Layout(), 32, "bits", utils.AsciiFrameUnitLayout_RightToLeft, leftpad+2)
	if err != nil {
		return "", fmt.Errorf("error generating documentation for instruction %v: %w", f.Mnemonic, err)
	}

	builder.WriteString(frame)

	return builder.String(), nil
}

// Returns the documentation of every instruction form in the catalog
func (c *Catalog) Documentation(leftpad int) (string, error) {
	var builder strings.Builder

	for _, form := range c.Forms() {
		doc, err := form.Documentation(leftpad)
		if err != nil {
			return "", err
		}

		builder.WriteString(doc)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
