// Package syntax parses the string identifiers that show up in labels, facets and labeler policies: DIDs, handles, AT-URIs, datetimes and language tags.
//
// These are thin string types. Parsing only checks syntax; nothing here resolves identities or talks to the network.
package syntax
