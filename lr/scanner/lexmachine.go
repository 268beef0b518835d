package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glossa-dev/glossa"
	"github.com/glossa-dev/glossa/lr"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// GrammarScanner is a scanner factory for a grammar: it compiles the
// grammar's lexical rules into a DFA once and creates Scanner instances
// for concrete inputs.
type GrammarScanner struct {
	Lexer   *lexmachine.Lexer
	grammar *lr.Grammar
}

// NewGrammarScanner creates a scanner factory from a grammar and a set of
// lexical rules. Every terminal of the grammar must be covered by at least
// one rule, and every rule must reference a declared terminal (or be a
// skip rule). Rules are fed to the DFA in order of descending priority,
// with declaration order breaking ties.
//
// NewGrammarScanner will return an error if the rule set is inconsistent
// or compiling the DFA failed.
func NewGrammarScanner(g *lr.Grammar, rules []Rule) (*GrammarScanner, error) {
	covered := make(map[string]bool)
	for i, rule := range rules {
		if rule.Skip {
			if rule.Terminal != "" {
				return nil, fmt.Errorf("skip rule #%d must not name a terminal (%q)", i, rule.Terminal)
			}
		} else {
			sym := g.SymbolByName(rule.Terminal)
			if sym == nil || !sym.IsTerminal() || sym.IsEOF() {
				return nil, fmt.Errorf("lexical rule #%d references unknown terminal %q", i, rule.Terminal)
			}
			covered[rule.Terminal] = true
		}
		if (rule.Literal == "") == (rule.Pattern == "") {
			return nil, fmt.Errorf("lexical rule #%d needs either a literal or a pattern", i)
		}
	}
	var missing []string
	g.EachTerminal(func(A *lr.Symbol) interface{} {
		if !A.IsEOF() && !covered[A.Name] {
			missing = append(missing, A.Name)
		}
		return nil
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("terminals without a lexical rule: %s", strings.Join(missing, ", "))
	}
	gs := &GrammarScanner{
		Lexer:   lexmachine.NewLexer(),
		grammar: g,
	}
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})
	for _, rule := range ordered {
		pattern := rule.Pattern
		if rule.Literal != "" {
			pattern = escapeLiteral(rule.Literal)
		}
		if rule.Skip {
			gs.Lexer.Add([]byte(pattern), Skip)
		} else {
			sym := g.SymbolByName(rule.Terminal)
			gs.Lexer.Add([]byte(pattern), matchTerminal(sym.Value))
		}
	}
	if err := gs.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return gs, nil
}

// escapeLiteral turns a literal token string into a regular expression
// matching exactly that string. Only non-alphanumeric characters are
// escaped: backslash-prefixing a letter would turn it into a control
// character or a character class (\t, \W), mangling alphabetic keywords
// like "true" or "WHERE".
func escapeLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		switch {
		case 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' || r == '_':
		default:
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Grammar returns the grammar this factory scans for.
func (gs *GrammarScanner) Grammar() *lr.Grammar {
	return gs.grammar
}

// Scanner creates a scanner for a given input. The scanner will implement
// the Tokenizer interface.
func (gs *GrammarScanner) Scanner(input string) (*Scanner, error) {
	s, err := gs.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{
		scanner: s,
		length:  uint64(len(input)),
		Error:   logError,
	}, nil
}

// ScanAll tokenizes an input completely and returns all of its tokens,
// including a trailing token of type glossa.EOF. Unmatched input stops the
// scan and is reported as a LexError.
func (gs *GrammarScanner) ScanAll(input string) ([]glossa.Token, error) {
	s, err := gs.Scanner(input)
	if err != nil {
		return nil, err
	}
	var lexerr error
	s.SetErrorHandler(func(e error) {
		if lexerr == nil {
			lexerr = e
		}
	})
	var tokens []glossa.Token
	for {
		tok := s.NextToken()
		if lexerr != nil {
			return nil, lexerr
		}
		tokens = append(tokens, tok)
		if tok.TokType() == glossa.EOF {
			return tokens, nil
		}
	}
}

// Scanner is a scanner for a single input text, implementing the Tokenizer
// interface. Create scanners with GrammarScanner.Scanner.
type Scanner struct {
	scanner *lexmachine.Scanner
	length  uint64
	eof     bool
	Error   func(error)
}

var _ Tokenizer = (*Scanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// NextToken is part of the Tokenizer interface.
//
// Input that no rule matches is reported to the error handler as a
// LexError; the scanner then skips the offending position and continues.
// At the end of the input a single token of type glossa.EOF is produced;
// further calls keep returning it.
func (s *Scanner) NextToken() glossa.Token {
	if s.eof {
		return MakeToken(glossa.EOF, "", glossa.Span{s.length, s.length})
	}
	tok, err, eof := s.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			s.Error(LexError{
				Offset:    uint64(ui.StartTC),
				Remainder: string(ui.Text[ui.StartTC:]),
			})
			if ui.FailTC > s.scanner.TC {
				s.scanner.TC = ui.FailTC
			} else {
				s.scanner.TC++
			}
		} else {
			s.Error(err)
		}
		tok, err, eof = s.scanner.Next()
	}
	if eof {
		tracer().Debugf("scanner reached end of input")
		s.eof = true
		return MakeToken(glossa.EOF, "", glossa.Span{s.length, s.length})
	}
	token := tok.(*lexmachine.Token)
	t := MakeToken(
		glossa.TokType(token.Type),
		string(token.Lexeme),
		glossa.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
	tracer().Debugf("next token %v", t)
	return t
}

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func matchTerminal(tokval int) lexmachine.Action {
	return func(sc *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return sc.Token(tokval, string(m.Bytes), m), nil
	}
}
