// Package target heuristically deduces a missing build-target identifier
// from manifest and repository-name hints. The heuristic never fails: when
// no vendor or architecture keyword matches, it degrades to "unknown" with a
// warning, which is a valid terminal value rather than an error.
package target

import (
	"context"
	"strings"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/manifest"
)

// Unknown is the target identifier assigned when no inference rule matches.
const Unknown = "unknown"

// rule maps a vendor or architecture keyword prefix to a target triple.
// Order matters: earlier rules win, so more specific families come first.
type rule struct {
	keyword string
	triple  string
}

var rules = []rule{
	{"esp32c", "riscv32imc-unknown-none-elf"},
	{"esp32", "xtensa-esp32-none-elf"},
	{"stm32f0", "thumbv6m-none-eabi"},
	{"stm32", "thumbv7em-none-eabihf"},
	{"nrf52", "thumbv7em-none-eabihf"},
	{"nrf51", "thumbv6m-none-eabi"},
	{"rp2040", "thumbv6m-none-eabi"},
	{"pico", "thumbv6m-none-eabi"},
	{"samd21", "thumbv6m-none-eabi"},
	{"atmega", "avr-unknown-gnu-atmega328"},
	{"avr", "avr-unknown-gnu-atmega328"},
	{"hifive", "riscv32imac-unknown-none-elf"},
	{"riscv", "riscv32imac-unknown-none-elf"},
	{"linux", "x86_64-unknown-linux-gnu"},
}

// Infer deduces a target triple from the repository name and the fetched
// cargo manifest. Invoked only when the platform record has no target yet.
func Infer(ctx context.Context, repositoryName string, pkg *manifest.Package) (string, []config.Diagnostic) {
	logger := ctxlog.FromContext(ctx)

	var tokens []string
	tokens = append(tokens, tokenize(repositoryName)...)
	if pkg != nil {
		tokens = append(tokens, tokenize(pkg.Name)...)
		for _, kw := range pkg.Keywords {
			tokens = append(tokens, tokenize(kw)...)
		}
	}

	for _, r := range rules {
		for _, tok := range tokens {
			if strings.HasPrefix(tok, r.keyword) {
				logger.Debug("Inferred build target.", "keyword", r.keyword, "triple", r.triple)
				return r.triple, nil
			}
		}
	}

	logger.Debug("No inference rule matched.", "tokens", tokens)
	return Unknown, []config.Diagnostic{{
		Severity: config.SeverityWarning,
		Message:  "could not infer a build target from package hints; set one explicitly",
	}}
}

// tokenize lowercases and splits an identifier on the usual separators.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '_' || r == '/' || r == '.' || r == ' '
	})
}
