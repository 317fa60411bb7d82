package terraform

import (
	"regexp"
	"strings"
)

// closingDelimiter returns the index of the delimiter that closes the one at
// open, counting nested delimiters of the same kind. Quoted string contents
// are skipped, so braces inside interpolations like "${var.x}" do not affect
// the depth. Returns -1 when the text ends before the depth returns to zero.
func closingDelimiter(text string, open int) int {
	if open < 0 || open >= len(text) {
		return -1
	}

	opener := text[open]
	var closer byte
	switch opener {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	case '(':
		closer = ')'
	default:
		return -1
	}

	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		case '"':
			i = skipString(text, i)
		}
	}

	return -1
}

// skipString returns the index of the quote that closes the string literal
// opening at i. A literal that never closes is cut off at the end of its
// line, so a stray quote cannot desynchronize depth counting for the rest of
// the file.
func skipString(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"', '\n':
			return j
		}
	}
	return len(text) - 1
}

// delimDelta returns the change in block depth caused by line, with string
// literals skipped the same way closingDelimiter skips them.
func delimDelta(line string) int {
	delta := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{', '[', '(':
			delta++
		case '}', ']', ')':
			delta--
		case '"':
			i = skipString(line, i)
		}
	}
	return delta
}

// lineStart returns the index of the first byte of the line containing pos.
func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

var moduleRe = regexp.MustCompile(`(?m)^([ \t]*)module[ \t]+"([^"]+)"[ \t]*\{`)

// block is a located module block: the span [start, end] covers everything
// from the first byte of the declaration line's indentation to the closing
// brace.
type block struct {
	name   string
	indent string
	start  int // first byte of the declaration line
	open   int // index of the opening brace
	end    int // index of the matching closing brace
}

// body returns the text between the block's braces.
func (b block) body(text string) string {
	return text[b.open+1 : b.end]
}

// moduleBlocks returns every well-formed module block in config, in order of
// appearance. Blocks whose braces never balance are ignored.
func moduleBlocks(config string) []block {
	var blocks []block
	for _, m := range moduleRe.FindAllStringSubmatchIndex(config, -1) {
		open := m[1] - 1
		end := closingDelimiter(config, open)
		if end < 0 {
			continue
		}
		blocks = append(blocks, block{
			name:   config[m[4]:m[5]],
			indent: config[m[2]:m[3]],
			start:  m[0],
			open:   open,
			end:    end,
		})
	}
	return blocks
}

var sourceAttrRe = regexp.MustCompile(`(?m)^[ \t]*source[ \t]*=[ \t]*"([^"]*)"`)

// moduleSource returns the value of a module block's source attribute, or ""
// when the block has none.
func moduleSource(config string, b block) string {
	m := sourceAttrRe.FindStringSubmatch(b.body(config))
	if m == nil {
		return ""
	}
	return m[1]
}

// baseSource strips the ?ref= version qualifier from a module source. The
// base is the stable identity used when matching modules.
func baseSource(source string) string {
	if i := strings.IndexByte(source, '?'); i >= 0 {
		return source[:i]
	}
	return source
}

// findModuleBySource returns the first module block whose source attribute
// has the same base as source.
func findModuleBySource(config, source string) (block, bool) {
	want := baseSource(source)
	for _, b := range moduleBlocks(config) {
		if baseSource(moduleSource(config, b)) == want {
			return b, true
		}
	}
	return block{}, false
}

// findModuleByName returns the module block declared with the given name.
func findModuleByName(config, name string) (block, bool) {
	for _, b := range moduleBlocks(config) {
		if b.name == name {
			return b, true
		}
	}
	return block{}, false
}
