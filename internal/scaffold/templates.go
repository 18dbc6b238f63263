package scaffold

const workspaceManifestTemplate = `[workspace]
resolver = "2"
members = [
{{- range .Members}}
    "{{.}}",
{{- end}}
]

[workspace.package]
edition = "2021"
license = "MIT OR Apache-2.0"

[workspace.dependencies]
embedded-hal = "1.0"
embedded-hal-mock = "0.11"
defmt = "0.3"
`

const coreLibManifest = `[package]
name = "core-lib"
version = "0.1.0"
edition.workspace = true
license.workspace = true

[dependencies]
embedded-hal = { workspace = true }

[features]
default = []
std = []
`

const coreLibSource = `#![cfg_attr(not(feature = "std"), no_std)]

use embedded_hal::digital::OutputPin;

/// Hardware-agnostic status LED controller.
pub struct StatusLed<P: OutputPin> {
    pin: P,
    lit: bool,
}

impl<P: OutputPin> StatusLed<P> {
    pub fn new(pin: P) -> Self {
        Self { pin, lit: false }
    }

    pub fn toggle(&mut self) -> Result<(), P::Error> {
        self.lit = !self.lit;
        if self.lit {
            self.pin.set_high()
        } else {
            self.pin.set_low()
        }
    }
}
`

const testsManifest = `[package]
name = "tests"
version = "0.1.0"
edition.workspace = true
license.workspace = true

[dependencies]
core-lib = { path = "../core-lib", features = ["std"] }
embedded-hal-mock = { workspace = true }

[[test]]
name = "integration"
path = "integration_test.rs"
`

const testsSource = `use core_lib::StatusLed;
use embedded_hal_mock::eh1::digital::{Mock as PinMock, State, Transaction};

#[test]
fn status_led_toggles() {
    let expectations = [
        Transaction::set(State::High),
        Transaction::set(State::Low),
    ];
    let mut pin = PinMock::new(&expectations);

    let mut led = StatusLed::new(pin.clone());
    led.toggle().unwrap();
    led.toggle().unwrap();

    pin.done();
}
`

const cargoConfig = `[build]
target-dir = "target"

[profile.release]
opt-level = "z"
lto = true
codegen-units = 1
debug = false
`

const readmeTemplate = `# {{.Name}}

Multi-target embedded workspace managed by halglue.

## Quick start

` + "```bash" + `
halglue glue init <platform> <repository-url>   # analyze a HAL crate
halglue glue validate --apply                   # register validated platforms
halglue add-platform <platform>                 # emit hal-/app- units
halglue test                                    # run host tests
` + "```" + `

## Layout

- core-lib/: hardware-agnostic logic
- tests/: host-based test harness
- hal-*/: per-platform HAL wrappers
- app-*/: per-platform application binaries
`

const halManifestTemplate = `[package]
name = "hal-{{.Platform}}"
version = "0.1.0"
edition.workspace = true
license.workspace = true

[dependencies]
core-lib = { path = "../core-lib" }
embedded-hal = { workspace = true }
{{.HalCrate}} = "*"
`

const halSourceTemplate = `#![no_std]

use embedded_hal::digital::OutputPin;

/// Board LED pin wrapper for the {{.Platform}} platform.
pub struct BoardLed<P: OutputPin> {
    pin: P,
}

impl<P: OutputPin> BoardLed<P> {
    pub fn new(pin: P) -> Self {
        Self { pin }
    }

    pub fn into_inner(self) -> P {
        self.pin
    }
}
`

const appManifestTemplate = `[package]
name = "app-{{.Platform}}"
version = "0.1.0"
edition.workspace = true
license.workspace = true

[dependencies]
core-lib = { path = "../core-lib" }
hal-{{.Platform}} = { path = "../hal-{{.Platform}}" }
embedded-hal = { workspace = true }
{{- if .Embedded}}
panic-halt = "0.2"
cortex-m-rt = "0.7"
{{- end}}

[[bin]]
name = "{{.Platform}}"
path = "src/main.rs"
`

const appEmbeddedMain = `#![no_std]
#![no_main]

use panic_halt as _;
use cortex_m_rt::entry;

#[entry]
fn main() -> ! {
    loop {}
}
`

const appHostedMainTemplate = `fn main() {
    println!("running {{.Platform}} application");
}
`

const memoryLayout = `MEMORY
{
  FLASH : ORIGIN = 0x08000000, LENGTH = 256K
  RAM : ORIGIN = 0x20000000, LENGTH = 64K
}
`
