package mc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/mipsasm/pkg/hw/cpu"
	"github.com/Manu343726/mipsasm/pkg/utils"
)

var (
	// "name:" at the start of a statement
	labelPattern = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.$]*)\s*:`)
	// "imm(base)" memory operands, imm can be omitted
	pointerOperandPattern = regexp.MustCompile(`^(.*?)\(\s*([^()]+?)\s*\)$`)
	// Register, format and label names
	symbolPattern = regexp.MustCompile(`^[$A-Za-z_.][A-Za-z0-9_.$]*$`)
)

// Source directives
const (
	directiveOrigin = ".org"
	directiveWord   = ".word"
)

// Removes "#" and ";" comments
func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}

	return line
}

func parseInteger(text string) (int64, error) {
	value, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, utils.MakeError(cpu.ErrInvalidOperand, "'%v' is not an integer", text)
	}

	return value, nil
}

// Parses a single operand: an integer, a register given by number ("$8") or a name
func parseScalarOperand(text string) (Operand, error) {
	if text == "" {
		return Operand{}, utils.MakeError(cpu.ErrInvalidOperand, "empty operand")
	}

	if value, err := strconv.ParseInt(text, 0, 64); err == nil {
		return Imm(value), nil
	}

	if number, found := strings.CutPrefix(text, "$"); found {
		if value, err := strconv.ParseUint(number, 10, 5); err == nil {
			return Imm(int64(value)), nil
		}
	}

	if !symbolPattern.MatchString(text) {
		return Operand{}, utils.MakeError(cpu.ErrInvalidOperand, "malformed operand '%v'", text)
	}

	return Operand{Kind: OperandKind_Symbol, Symbol: text}, nil
}

// Parses an operand as written in source. Memory operands "imm(base)" expand into
// the two operands imm and base
func ParseOperand(text string) ([]Operand, error) {
	text = strings.TrimSpace(text)

	if match := pointerOperandPattern.FindStringSubmatch(text); match != nil {
		value := Imm(0)

		if inner := strings.TrimSpace(match[1]); inner != "" {
			var err error
			if value, err = parseScalarOperand(inner); err != nil {
				return nil, err
			}
		}

		base, err := parseScalarOperand(match[2])
		if err != nil {
			return nil, err
		}

		return []Operand{value, base}, nil
	}

	operand, err := parseScalarOperand(text)
	if err != nil {
		return nil, err
	}

	return []Operand{operand}, nil
}

// Parses a comma separated operand list
func ParseOperands(text string) ([]Operand, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var result []Operand

	for _, item := range strings.Split(text, ",") {
		operands, err := ParseOperand(item)
		if err != nil {
			return nil, err
		}

		result = append(result, operands...)
	}

	return result, nil
}

// Assembles one source line: optional labels followed by a directive, an
// instruction or nothing
func (a *Assembler) AssembleLine(line string) error {
	statement := strings.TrimSpace(stripComment(line))

	for {
		match := labelPattern.FindStringSubmatch(statement)
		if match == nil {
			break
		}

		if err := a.DefineLabel(match[1]); err != nil {
			return err
		}

		statement = strings.TrimSpace(statement[len(match[0]):])
	}

	if statement == "" {
		return nil
	}

	mnemonic, operandsText := statement, ""
	if i := strings.IndexAny(statement, " \t"); i >= 0 {
		mnemonic, operandsText = statement[:i], statement[i+1:]
	}

	switch mnemonic {
	case directiveOrigin:
		address, err := parseInteger(strings.TrimSpace(operandsText))
		if err != nil {
			return err
		}

		if address < 0 || address > math.MaxUint32 {
			return utils.MakeError(cpu.ErrInvalidOperand, "origin %#x out of the 32 bit address space", address)
		}

		return a.SetOrigin(uint32(address))

	case directiveWord:
		for _, item := range strings.Split(operandsText, ",") {
			value, err := parseInteger(strings.TrimSpace(item))
			if err != nil {
				return err
			}

			if _, err := a.Push(value); err != nil {
				return err
			}
		}

		return nil
	}

	operands, err := ParseOperands(operandsText)
	if err != nil {
		return utils.MakeError(err, "'%v'", statement)
	}

	_, err = a.Emit(mnemonic, operands...)
	return err
}

// Assembles a whole source. Fails if a line cannot be assembled or if a label is
// referenced but never defined. The assembler is returned even on failure, with
// everything assembled up to the failing line
func AssembleSource(r io.Reader, options ...AssemblerOption) (*Assembler, error) {
	a := NewAssembler(options...)
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		if err := a.AssembleLine(scanner.Text()); err != nil {
			return a, fmt.Errorf("line %v: %w", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return a, fmt.Errorf("error reading source: %w", err)
	}

	if unresolved := a.UnresolvedLabels(); len(unresolved) > 0 {
		return a, utils.MakeError(cpu.ErrUnresolvedLabel, "%v", strings.Join(unresolved, ", "))
	}

	return a, nil
}
