// Package utils provides utility functions shared by the assembler, the disassembler and the CLI.
package utils

import (
	"regexp"
	"slices"
	"strings"

	"github.com/fatih/color"
)

// Assembly listing highlighting colors
var (
	asmAddressColor  = color.New(color.FgCyan)
	asmRawWordColor  = color.New(color.FgMagenta)
	asmMnemonicColor = color.New(color.FgYellow, color.Bold)
	asmRegisterColor = color.New(color.FgGreen)
	asmNumberColor   = color.New(color.FgWhite, color.Bold)
	asmCommentColor  = color.New(color.FgHiBlack)
	asmInvalidColor  = color.New(color.FgRed, color.Bold)
)

// Patterns for listing elements
var (
	// "0x0000000000001000:" at the start of a listing line
	asmAddressPattern = regexp.MustCompile(`^\s*0x[0-9a-fA-F]+:`)
	// Raw instruction word right after the address
	asmRawWordPattern = regexp.MustCompile(`^\s*0x[0-9a-fA-F]+:\s+([0-9a-fA-F]{8})\b`)
	// Mnemonic: first dotted identifier of the instruction text
	asmMnemonicPattern = regexp.MustCompile(`^\s*(?:0x[0-9a-fA-F]+:\s+[0-9a-fA-F]{8}\s+)?([a-z][a-z0-9]*(?:\.[a-z]+)*)\b`)
	// $t0, $f12, $zero...
	asmRegisterPattern = regexp.MustCompile(`\$[a-z0-9]+`)
	// Hex and decimal immediates, optionally negative
	asmNumberPattern = regexp.MustCompile(`-?\b(?:0x[0-9a-fA-F]+|[0-9]+)\b`)
	// # and ; comments
	asmCommentPattern = regexp.MustCompile(`[#;].*$`)
)

// token represents a syntax-highlighted token
type token struct {
	color *color.Color
	start int
	end   int
}

// HighlightAssembly applies syntax highlighting to one assembly or disassembly listing line
func HighlightAssembly(line string) string {
	if line == "" {
		return ""
	}

	var tokens []token
	add := func(c *color.Color, start, end int) {
		if start >= 0 && end > start && !overlapsAny(start, end, tokens) {
			tokens = append(tokens, token{color: c, start: start, end: end})
		}
	}

	if match := asmCommentPattern.FindStringIndex(line); match != nil {
		add(asmCommentColor, match[0], match[1])
	}

	if match := asmAddressPattern.FindStringIndex(line); match != nil {
		add(asmAddressColor, match[0], match[1])
	}

	if match := asmRawWordPattern.FindStringSubmatchIndex(line); match != nil {
		add(asmRawWordColor, match[2], match[3])
	}

	if idx := strings.Index(line, "???"); idx >= 0 {
		add(asmInvalidColor, idx, idx+3)
	} else if match := asmMnemonicPattern.FindStringSubmatchIndex(line); match != nil {
		add(asmMnemonicColor, match[2], match[3])
	}

	for _, match := range asmRegisterPattern.FindAllStringIndex(line, -1) {
		add(asmRegisterColor, match[0], match[1])
	}

	for _, match := range asmNumberPattern.FindAllStringIndex(line, -1) {
		add(asmNumberColor, match[0], match[1])
	}

	return buildHighlightedString(line, tokens)
}

// overlapsAny checks if a range overlaps with any existing token
func overlapsAny(start, end int, tokens []token) bool {
	for _, t := range tokens {
		if start < t.end && end > t.start {
			return true
		}
	}
	return false
}

// buildHighlightedString constructs the final string with color codes
func buildHighlightedString(line string, tokens []token) string {
	if len(tokens) == 0 {
		return line
	}

	slices.SortFunc(tokens, func(a, b token) int { return a.start - b.start })

	var result strings.Builder
	pos := 0

	for _, t := range tokens {
		if t.start > pos {
			result.WriteString(line[pos:t.start])
		}
		result.WriteString(t.color.Sprint(line[t.start:t.end]))
		pos = t.end
	}

	if pos < len(line) {
		result.WriteString(line[pos:])
	}

	return result.String()
}
