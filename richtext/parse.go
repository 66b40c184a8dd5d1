package richtext

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bluesky-social/moderation/atproto/syntax"

	"golang.org/x/text/unicode/norm"
)

type TokenType int

const (
	TokenText TokenType = iota
	// backslash-escaped punctuation, rendered as the bare character
	TokenEscape
	TokenMention
	TokenTag
	// bare http(s) URL
	TokenAutoLink
	// markdown-style [label](url)
	TokenLink
)

// Max length of a hashtag, in graphemes, not counting the '#'.
const MaxTagLength = 64

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// A piece of parsed source text.
type Token struct {
	Type TokenType
	// exact source text this token was parsed from
	Raw string
	// text as it appears in the final post
	Text string
	// for mentions, without the '@'
	Handle syntax.Handle
	// for hashtags, without the '#', NFC normalized
	Tag string
	// for links
	URL string
}

// Tokenized authored text, before mentions are resolved.
type Document struct {
	Source string
	Tokens []Token
}

var mentionRegex = regexp.MustCompile(`^@([a-zA-Z0-9.-]+)`)

// Tokenizes text as typed by a user in to a [Document].
//
// Recognizes @mentions (valid handle syntax only), #hashtags, bare http(s) links, and markdown links like [label](https://example.com). A backslash before ASCII punctuation escapes it, so `\#notatag` and `\[not](a link)` stay plain text. Parsing never fails; anything unrecognized is text.
func Parse(source string) *Document {
	p := parser{src: source, textStart: -1}
	for p.pos < len(p.src) {
		if p.tryEscape() || p.tryMarkdownLink() || p.tryMention() || p.tryTag() || p.tryAutoLink() {
			continue
		}
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if p.textStart < 0 {
			p.textStart = p.pos
		}
		p.pos += size
	}
	p.flushText()
	return &Document{Source: source, Tokens: p.tokens}
}

type parser struct {
	src    string
	pos    int
	tokens []Token
	// start of the pending plain text run, or -1
	textStart int
}

func (p *parser) flushText() {
	if p.textStart >= 0 && p.textStart < p.pos {
		s := p.src[p.textStart:p.pos]
		p.tokens = append(p.tokens, Token{Type: TokenText, Raw: s, Text: s})
	}
	p.textStart = -1
}

func (p *parser) emit(tok Token) {
	p.flushText()
	p.tokens = append(p.tokens, tok)
	p.pos += len(tok.Raw)
}

// mentions, tags and links only start after whitespace or an open paren
func (p *parser) atWordStart() bool {
	if p.pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(p.src[:p.pos])
	return unicode.IsSpace(r) || r == '('
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte(asciiPunct, c) >= 0
}

func (p *parser) tryEscape() bool {
	if p.src[p.pos] != '\\' || p.pos+1 >= len(p.src) || !isASCIIPunct(p.src[p.pos+1]) {
		return false
	}
	p.emit(Token{
		Type: TokenEscape,
		Raw:  p.src[p.pos : p.pos+2],
		Text: p.src[p.pos+1 : p.pos+2],
	})
	return true
}

func (p *parser) tryMarkdownLink() bool {
	if p.src[p.pos] != '[' {
		return false
	}
	var label strings.Builder
	i := p.pos + 1
	for i < len(p.src) {
		c := p.src[i]
		if c == '\\' && i+1 < len(p.src) && isASCIIPunct(p.src[i+1]) {
			label.WriteByte(p.src[i+1])
			i += 2
			continue
		}
		if c == ']' || c == '[' || c == '\n' {
			break
		}
		label.WriteByte(c)
		i++
	}
	if i+1 >= len(p.src) || p.src[i] != ']' || p.src[i+1] != '(' {
		return false
	}
	targetStart := i + 2
	closeParen := strings.IndexByte(p.src[targetStart:], ')')
	if closeParen < 0 {
		return false
	}
	target := p.src[targetStart : targetStart+closeParen]
	if strings.ContainsAny(target, " \t\r\n") || !isWebURL(target) {
		return false
	}
	text := strings.TrimSpace(label.String())
	if text == "" {
		return false
	}
	p.emit(Token{
		Type: TokenLink,
		Raw:  p.src[p.pos : targetStart+closeParen+1],
		Text: text,
		URL:  target,
	})
	return true
}

func (p *parser) tryMention() bool {
	if p.src[p.pos] != '@' || !p.atWordStart() {
		return false
	}
	m := mentionRegex.FindStringSubmatch(p.src[p.pos:])
	if m == nil {
		return false
	}
	// sentence punctuation after a handle is not part of it
	raw := strings.TrimRight(m[1], ".-")
	h, err := syntax.ParseHandle(raw)
	if err != nil {
		return false
	}
	p.emit(Token{
		Type:   TokenMention,
		Raw:    "@" + raw,
		Text:   "@" + raw,
		Handle: h,
	})
	return true
}

func (p *parser) tryTag() bool {
	rest := p.src[p.pos:]
	var prefix int
	switch {
	case strings.HasPrefix(rest, "#"):
		prefix = 1
	case strings.HasPrefix(rest, "＃"):
		prefix = len("＃")
	default:
		return false
	}
	if !p.atWordStart() {
		return false
	}
	body := rest[prefix:]
	if end := strings.IndexFunc(body, func(r rune) bool { return unicode.IsSpace(r) || r == '\\' }); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimRightFunc(body, unicode.IsPunct)
	if body == "" || isAllDigits(body) || GraphemeLen(body) > MaxTagLength {
		return false
	}
	raw := rest[:prefix+len(body)]
	p.emit(Token{
		Type: TokenTag,
		Raw:  raw,
		Text: raw,
		Tag:  norm.NFC.String(body),
	})
	return true
}

func (p *parser) tryAutoLink() bool {
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, "https://") && !strings.HasPrefix(rest, "http://") {
		return false
	}
	if !p.atWordStart() {
		return false
	}
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		rest = rest[:end]
	}
	link := trimLinkTail(rest)
	if !isWebURL(link) {
		return false
	}
	p.emit(Token{
		Type: TokenAutoLink,
		Raw:  link,
		Text: link,
		URL:  link,
	})
	return true
}

// strips trailing sentence punctuation, and a closing paren with no matching open paren
func trimLinkTail(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		switch {
		case strings.IndexByte(".,;:!?'\"", last) >= 0:
			s = s[:len(s)-1]
		case last == ')' && strings.Count(s, "(") < strings.Count(s, ")"):
			s = s[:len(s)-1]
		default:
			return s
		}
	}
	return s
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Resolves a mention handle to an account DID. Returns false if the handle could not be resolved.
type HandleResolver func(handle syntax.Handle) (syntax.DID, bool)

// Resolver backed by a pre-resolved map. Handles are matched case-insensitively.
func MapResolver(m map[syntax.Handle]syntax.DID) HandleResolver {
	byHandle := make(map[syntax.Handle]syntax.DID, len(m))
	for h, did := range m {
		byHandle[h.Normalize()] = did
	}
	return func(h syntax.Handle) (syntax.DID, bool) {
		did, ok := byHandle[h.Normalize()]
		return did, ok
	}
}

// Distinct handles mentioned, normalized, in order of first appearance. Useful for batch resolution before [Document.Finalize].
func (d *Document) Mentions() []syntax.Handle {
	var out []syntax.Handle
	seen := make(map[syntax.Handle]bool)
	for _, tok := range d.Tokens {
		if tok.Type != TokenMention {
			continue
		}
		h := tok.Handle.Normalize()
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

// Final post text, with escapes and markdown link syntax removed.
func (d *Document) Text() string {
	var b strings.Builder
	for _, tok := range d.Tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Grapheme length of the final post text.
func (d *Document) Length() int {
	return GraphemeLen(d.Text())
}

// Renders the final post text and its facets, with UTF-8 byte offsets. Mentions that `resolve` can not resolve (or all mentions, if it is nil) are left as plain text.
//
// The facets are sorted and non-overlapping, so they can be passed straight to [SegmentRichText].
func (d *Document) Finalize(resolve HandleResolver) (string, []Facet) {
	var b strings.Builder
	var facets []Facet
	for _, tok := range d.Tokens {
		start := b.Len()
		b.WriteString(tok.Text)
		end := b.Len()

		var feat Feature
		switch tok.Type {
		case TokenMention:
			if resolve != nil {
				if did, ok := resolve(tok.Handle); ok {
					feat = &FeatureMention{DID: did.String()}
				}
			}
		case TokenTag:
			feat = &FeatureTag{Tag: tok.Tag}
		case TokenAutoLink, TokenLink:
			feat = &FeatureLink{URI: tok.URL}
		}
		if feat != nil && start < end {
			facets = append(facets, Facet{
				Index:    ByteSlice{ByteStart: start, ByteEnd: end},
				Features: []Feature{feat},
			})
		}
	}
	return b.String(), facets
}
