package js

import (
	"sort"

	"github.com/tdewolff/squash/estree"
)

var reservedWords = []string{
	"do", "if", "in", "for", "let", "new", "try", "var", "case", "else", "enum", "eval", "null", "this",
	"true", "void", "with", "await", "break", "catch", "class", "const", "false", "super", "throw",
	"while", "yield", "delete", "export", "import", "public", "return", "static", "switch", "typeof",
	"default", "extends", "finally", "package", "private", "continue", "debugger", "function",
	"arguments", "interface", "protected", "implements", "instanceof",
}

var reserved = func() map[string]bool {
	m := make(map[string]bool, len(reservedWords))
	for _, word := range reservedWords {
		m[word] = true
	}
	return m
}()

// naturalAlphabet is the order of the characters that aliases are made of, the first 54 can start an identifier.
const naturalAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$0123456789"

// CharFreq counts the occurrences of the alias characters in the retained source, indexed like naturalAlphabet.
type CharFreq [64]int32

func charIndex(c byte) int {
	switch {
	case 'a' <= c && c <= 'z':
		return int(c - 'a')
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 26
	case c == '_':
		return 52
	case c == '$':
		return 53
	case '0' <= c && c <= '9':
		return int(c-'0') + 54
	}
	return -1
}

// AddWord counts the characters of a word that will be in the output.
func (freq *CharFreq) AddWord(word string) {
	for i := 0; i < len(word); i++ {
		if j := charIndex(word[i]); j != -1 {
			freq[j]++
		}
	}
}

// Alphabet returns the alias characters ordered by descending frequency, digits always last since they cannot start an alias.
func (freq *CharFreq) Alphabet() string {
	order := make([]int, 64)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if digitA, digitB := 54 <= a, 54 <= b; digitA != digitB {
			return digitB
		}
		return freq[b] < freq[a]
	})
	b := make([]byte, 64)
	for i, j := range order {
		b[i] = naturalAlphabet[j]
	}
	return string(b)
}

// alias returns the i-th alias in bijective numbering over the alphabet, the first character is never a digit.
func alias(alphabet string, i int) string {
	b := []byte{}
	base := 54
	i++
	for {
		i--
		b = append(b, alphabet[i%base])
		i /= base
		base = 64
		if i <= 0 {
			break
		}
	}
	return string(b)
}

// Mangle assigns aliases to the declarations of the scope that are referenced, and renames all their instances. Ancestor scopes must be mangled first.
func (s *Scope) Mangle(alphabet string) {
	if !s.CanMangle || s.mangled {
		return
	}
	s.mangled = true

	used := make(map[string]bool, len(reserved)+len(s.References))
	for word := range reserved {
		used[word] = true
	}
	for name := range s.References {
		if decl := s.Parent.FindDeclaration(name); decl != nil && decl.Alias != "" {
			used[decl.Alias] = true
		} else {
			used[name] = true
		}
	}

	i := -1
	next := func() string {
		for {
			i++
			if name := alias(alphabet, i); !used[name] {
				return name
			}
		}
	}

	for _, name := range s.order {
		decl := s.Declarations[name]
		if len(decl.Instances) == 0 {
			continue
		} else if decl.Kind == FunctionExpressionDecl && len(decl.Instances) == 1 {
			continue // self-name is removed
		}

		decl.Alias = next()
		for _, id := range decl.Instances {
			s.p.rename(id, decl.Alias)
		}
	}
}

// rename overwrites an identifier instance by its alias, keeping the property name of shorthand properties.
func (p *Program) rename(id estree.NodeID, alias string) {
	n := p.ast.Node(id)
	text := alias
	if p.isShorthandValue(id) {
		text = p.ast.Data(id).(*estree.Identifier).Name + ":" + alias
	}
	p.code.Overwrite(n.Start, n.End, text)
	p.info[id].alias = alias
}

// isShorthandValue returns true for the identifier of a shorthand property, such as a in {a} or {a=1}.
func (p *Program) isShorthandValue(id estree.NodeID) bool {
	parent := p.ast.Node(id).Parent
	if pattern, ok := p.ast.Data(parent).(*estree.AssignmentPattern); ok && pattern.Left == id {
		id, parent = parent, p.ast.Node(parent).Parent
	}
	prop, ok := p.ast.Data(parent).(*estree.Property)
	return ok && prop.Shorthand && prop.Value == id
}
