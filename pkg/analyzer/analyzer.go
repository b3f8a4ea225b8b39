// Package analyzer extracts contact details and social references from
// free-form biography text.
package analyzer

import "regexp"

// word matches letters, combining marks, digits and underscores in any script
const word = `[\p{L}\p{M}\p{N}_]+`

const emailPattern = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`

var (
	emailRe   = regexp.MustCompile(emailPattern)
	hashtagRe = regexp.MustCompile(`#(` + word + `)`)
	mentionRe = regexp.MustCompile(`@(` + word + `)`)

	// tokenRe prefers an email over a mention starting inside it
	tokenRe = regexp.MustCompile(`(` + emailPattern + `)|#(` + word + `)|@(` + word + `)`)
)

// Analysis holds everything found in a piece of text
type Analysis struct {
	Emails   []string `json:"emails"`
	Hashtags []string `json:"hashtags"`
	Mentions []string `json:"mentions"`
}

// Empty reports whether nothing was found
func (a Analysis) Empty() bool {
	return len(a.Emails) == 0 && len(a.Hashtags) == 0 && len(a.Mentions) == 0
}

// Analyze runs three independent scans over text. Results keep the order in
// which they appear; a mention can also match the domain part of an email.
func Analyze(text string) Analysis {
	return Analysis{
		Emails:   findAll(emailRe, text, 0),
		Hashtags: findAll(hashtagRe, text, 1),
		Mentions: findAll(mentionRe, text, 1),
	}
}

func findAll(re *regexp.Regexp, text string, group int) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[group])
	}
	return out
}

// TokenKind classifies a Token
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenEmail
	TokenHashtag
	TokenMention
)

func (k TokenKind) String() string {
	switch k {
	case TokenEmail:
		return "email"
	case TokenHashtag:
		return "hashtag"
	case TokenMention:
		return "mention"
	default:
		return "text"
	}
}

// Token is one segment of tokenized text. Text is the exact source slice;
// Value is the address, tag or handle without its sigil.
type Token struct {
	Kind  TokenKind
	Text  string
	Value string
}

// Tokenize splits text into plain and linkable segments in a single pass.
// Concatenating every Token.Text yields the original text.
func Tokenize(text string) []Token {
	var tokens []Token
	last := 0
	for _, loc := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			tokens = append(tokens, Token{Kind: TokenText, Text: text[last:start]})
		}

		tok := Token{Text: text[start:end]}
		switch {
		case loc[2] >= 0:
			tok.Kind = TokenEmail
			tok.Value = text[loc[2]:loc[3]]
		case loc[4] >= 0:
			tok.Kind = TokenHashtag
			tok.Value = text[loc[4]:loc[5]]
		default:
			tok.Kind = TokenMention
			tok.Value = text[loc[6]:loc[7]]
		}
		tokens = append(tokens, tok)
		last = end
	}
	if last < len(text) {
		tokens = append(tokens, Token{Kind: TokenText, Text: text[last:]})
	}
	return tokens
}
