// Package component defines lifecycle-managed infrastructure for monox.
//
// A Component is started before the analysis runs and stopped after it
// finishes or is cancelled. The Registry starts components in registration
// order and stops the started ones in reverse.
package component
