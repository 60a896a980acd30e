// Package logging constructs the slog loggers used across photodup.
//
// It offers a human-oriented console handler and a machine-oriented JSON
// handler, both driven by the same Options, plus small attr helpers so
// call sites stay terse. Components identify themselves with the
// FieldComponent attribute; the console handler promotes it into the
// log header.
package logging
