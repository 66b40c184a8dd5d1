// Package richtext splits post text in to styled segments using facets (byte-range annotations for links, mentions and hashtags), parses authored text in to facets, and counts text length the way post limits do.
//
// Facet offsets are into the UTF-8 encoding of the text. Go strings are UTF-8, so offsets index strings directly; see [UTF16ToByteOffset] for converting from JavaScript-style indices.
package richtext
