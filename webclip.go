// Package webclip captures a webpage and turns it into a structured record in
// a remote document-collection store. A generative model maps the page onto
// the collection's schema, the draft is edited and sanitized, and the result
// is committed in two steps: create the item, then append its content blocks.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, sqlite/, trafilatura/).
package webclip
