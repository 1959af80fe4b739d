// Package errors provides the structured error type shared by the record,
// selection, source and analysis packages.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable ErrorCode, a message, optional details and the underlying
// cause. Callers branch on the code with HasCode rather than on message text.
//
// Contract violations (an out-of-enum category passed to an effective-area
// lookup) are not AppErrors; they panic.
package errors
