// Package model defines the typed ATHN document model produced by the parser
// and consumed by renderers and submission layers. A Document holds the
// metadata block, the ordered main section, and the optional header and
// footer link lists. Main section lines are a closed set of variants behind
// the MainLine interface; form fields are a closed set of ten kinds behind the
// FormField interface, each non-submit kind wrapping GlobalProperties for the
// optional/label/default/conditional properties every kind shares.
//
// Values in this package are immutable once built. DocumentBuilder and
// MetadataBuilder accumulate state during a single parse and must not be shared
// between goroutines. Parse failures are reported as *ParseError values whose
// Kind belongs to the closed ErrorKind enumeration, so callers can branch with
// errors.Is without matching on message text.
package model
