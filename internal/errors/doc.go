// Package errors provides structured, actionable errors for vtree.
//
// Every error outside the reconciliation engine carries a code that maps
// to a category, a short message and a longer explanation:
//   - tree: invalid tree documents and nodes (E100-E119)
//   - config: vtree.json problems (E120-E139)
//   - snapshot: snapshot store failures (E140-E159)
//   - server: live session errors (E160-E179)
//
// # Usage
//
//	err := errors.New("E121").
//	    WithDetailf("unknown snapshot backend %q", backend).
//	    WithSuggestion(`Use "disk", "s3" or "none"`)
//
//	fmt.Println(err.Format())
//
// Errors with the same code match under errors.Is:
//
//	if errors.Is(err, vterrors.New("E160")) { ... }
package errors
