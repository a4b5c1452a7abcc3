// Package ciap builds, validates and queries a catalog of CIAP-2 (ICPC-2)
// primary care classification codes.
//
// The catalog is fetched from a paginated remote source, persisted as a single
// JSON artifact, gate-checked, and finally loaded read-only by the applications
// that need code lookup and search.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package ciap
