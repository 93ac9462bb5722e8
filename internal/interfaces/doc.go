// Package interfaces documents the extension points of the converter and
// holds compile-time checks that the concrete types satisfy them.
//
// # Interfaces
//
//   - converter.Encoder: turns an ordered list of image paths into PDF bytes
//     (internal/converter/converter.go). PDFCPUEncoder is the production
//     implementation; tests substitute stubs that return deterministic bytes.
//   - http.DirectoryConverter: the conversion surface used by the HTTP
//     controllers (internal/http/convert.go), implemented by
//     converter.Converter.
//   - scheduler.ScratchSweeper and scheduler.AuditPruner: what the janitor
//     cleans up (internal/scheduler/janitor.go), implemented by
//     converter.Stager and audit.Auditor.
//   - cli.ServeFunc: how the CLI starts the service (internal/cli/app.go),
//     implemented by entrypoint.Run.
//
// # Adding an encoder
//
// Implement Encode so that it fails on any input that is not a decodable
// image and honours context cancellation, then pass it to
// converter.NewConverter. Everything above the converter is unaware of the
// encoding library.
package interfaces
