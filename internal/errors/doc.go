// Package errors provides structured, actionable error messages for the
// statekit CLI.
//
// Each error carries a code (e.g. "S120") that maps to a short message, a
// longer explanation and a documentation link. Errors raised while reading
// a JSON file can point at the offending line:
//
//	err := errors.New("S120").
//	    WithLocation("state.json", 4, 12).
//	    WithSuggestion("Remove the trailing comma after the last field")
//
//	errors.PrintError(err)
//	// ERROR S120: Invalid document
//	//
//	//   state.json:4:12
//	//
//	//      2 │   "name": "Harry",
//	//      3 │   "house": "Gryffindor",
//	//   →  4 │ }
//	//
//	//   Hint: Remove the trailing comma after the last field
package errors
