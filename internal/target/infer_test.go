package target

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/halglue/internal/manifest"
)

func TestInferFromRepositoryName(t *testing.T) {
	cases := []struct {
		repo string
		want string
	}{
		{"stm32f4xx-hal", "thumbv7em-none-eabihf"},
		{"stm32f0xx-hal", "thumbv6m-none-eabi"},
		{"nrf52840-hal", "thumbv7em-none-eabihf"},
		{"nrf51-hal", "thumbv6m-none-eabi"},
		{"esp32-hal", "xtensa-esp32-none-elf"},
		{"esp32c3-hal", "riscv32imc-unknown-none-elf"},
		{"rp2040-hal", "thumbv6m-none-eabi"},
		{"rp-pico", "thumbv6m-none-eabi"},
		{"avr-hal", "avr-unknown-gnu-atmega328"},
		{"hifive1", "riscv32imac-unknown-none-elf"},
		{"linux-embedded-hal", "x86_64-unknown-linux-gnu"},
	}
	for _, tc := range cases {
		t.Run(tc.repo, func(t *testing.T) {
			triple, diags := Infer(context.Background(), tc.repo, nil)
			assert.Equal(t, tc.want, triple)
			assert.Empty(t, diags)
		})
	}
}

func TestInferFromManifestHints(t *testing.T) {
	pkg := &manifest.Package{
		Name:     "board-support",
		Keywords: []string{"embedded", "samd21"},
	}

	triple, diags := Infer(context.Background(), "generic-bsp", pkg)
	assert.Equal(t, "thumbv6m-none-eabi", triple)
	assert.Empty(t, diags)
}

func TestInferPackageNameBeatsNothing(t *testing.T) {
	pkg := &manifest.Package{Name: "atmega328p-hal"}

	triple, diags := Infer(context.Background(), "some-board", pkg)
	assert.Equal(t, "avr-unknown-gnu-atmega328", triple)
	assert.Empty(t, diags)
}

func TestInferUnknownWithWarning(t *testing.T) {
	triple, diags := Infer(context.Background(), "mystery-hal", nil)

	assert.Equal(t, Unknown, triple)
	require.Len(t, diags, 1)
	assert.Equal(t, "could not infer a build target from package hints; set one explicitly", diags[0].Message)
}

func TestInferSpecificFamilyWinsOverGeneric(t *testing.T) {
	// stm32f0 must resolve before the broader stm32 rule.
	triple, _ := Infer(context.Background(), "stm32f072-discovery", nil)
	assert.Equal(t, "thumbv6m-none-eabi", triple)
}
