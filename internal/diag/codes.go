// Package diag provides centralized diagnostic code definitions and the
// swappable log sink used throughout the linker core.
package diag

// Error code constants organized by phase. Each constant represents a
// specific, stable diagnostic condition so callers can match on code
// rather than message text.
const (
	// ============================================================================
	// Lexer errors (LEX###)
	// ============================================================================

	// LexUnknownChar indicates a character matched no registered token pattern.
	LexUnknownChar = "LEX001"

	// ============================================================================
	// Parser errors (PAR###)
	// ============================================================================

	// ParExpected indicates a `req` sub-parser failed: something specific was expected.
	ParExpected = "PAR001"

	// ParBudgetExhausted indicates the parse budget (maxParseCount) was exceeded.
	ParBudgetExhausted = "PAR002"

	// ============================================================================
	// Preprocessor errors (PRE###)
	// ============================================================================

	// PreUnbalancedDirective indicates a #else or #endif with no matching #if.
	PreUnbalancedDirective = "PRE001"

	// PreMissingExpr indicates a #if with no boolean expression.
	PreMissingExpr = "PRE002"

	// ============================================================================
	// Import resolution errors (IMP###)
	// ============================================================================

	// ImpExportNotFound indicates an import leaf has no matching export.
	ImpExportNotFound = "IMP001"

	// ImpArgCountMismatch indicates import/export parameter counts differ.
	ImpArgCountMismatch = "IMP002"

	// ImpExtendsTargetNotStruct indicates #extends/#importMerge named a non-struct export.
	ImpExtendsTargetNotStruct = "IMP003"

	// ============================================================================
	// Reference resolution errors (REF###)
	// ============================================================================

	// RefNotFound indicates a call or type reference could not be bound to a declaration.
	RefNotFound = "REF001"

	// ============================================================================
	// Generator module errors (GEN###)
	// ============================================================================

	// GenNoTextBody indicates a generator export was traversed; its body is opaque.
	GenNoTextBody = "GEN001"
)
