// Package aggregates defines the error taxonomy and reference values shared
// by every repository and its callers.
//
// Nothing here touches storage or transport.
package aggregates
