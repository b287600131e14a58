// Package privacy normalizes privacy rule lists and caches them per setting.
//
// # Canonical form
//
// Rules arrive either from callers (APIRule, tagged by "@type") or from the
// server (wire.PrivacyValue). Both are translated element by element, in
// order, into Rule values. User ids that the directory does not know are
// dropped, as are chats that are neither basic groups nor supergroups.
//
// Rules are matched first to last and their order is kept. A trailing
// RestrictAll is removed because it is the implicit default; repeated
// trailing RestrictAll rules collapse into that one, so canonicalizing a
// canonical list returns it unchanged.
//
// # HTTP
//
//	GET /privacy/:setting
//	PUT /privacy/:setting
package privacy
