// Package field classifies column type expressions.
//
// A type expression is the text a definition uses for a column type, such as
// "Integer", "Unicode(20)" or "JSONB". ParseType splits it into a bare name
// and an optional parenthesized parameter list:
//
//	field.ParseType("Unicode(20)")  // {Name: "Unicode", Params: "(20)"}
//	field.ParseType("Integer")      // {Name: "Integer", Params: ""}
//
// The bare name is then classified against fixed lists:
//
//   - IsBackendSpecific: types imported from the PostgreSQL dialect module
//   - IsMutableContainer: types wrapped in a change-tracking adapter
//   - TakesNoParams: types whose constructor accepts no parameters
//
// FromSQL maps database catalog type names (as reported by information_schema,
// SQLite pragmas or Atlas HCL) back to type expressions.
package field
