// Package diag defines the diagnostic model shared by the decoder, the IR lowering
// pass and the CLI.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form (see codes.go).
//   - Message – short human text.
//   - Primary – the source.Span the finding points at.
//   - Notes – optional secondary spans.
//
// Producers talk to a Reporter; BagReporter collects into a Bag, which is what the
// lowering pass calls its diagnostics sink. Package diag does no formatting beyond
// the golden form; pretty output lives in internal/diagfmt.
package diag
