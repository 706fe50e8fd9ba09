package engine

import "strings"

// kwPrefix marks keyword names in preprocessed source.
const kwPrefix = "__kw_"

// preprocessSource rewrites a cabinet script into source zygomys accepts:
//
//   - :type becomes the string "__kw_type", so keywords never clash with
//     user bindings;
//   - auto-doors becomes auto_doors, since zygomys reads a hyphen inside an
//     identifier as subtraction;
//   - ; and ;; line comments become // comments.
//
// String literals and the := operator pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"':
			i = copyLiteral(&out, source, i, true)
		case c == '`':
			i = copyLiteral(&out, source, i, false)
		case c == ';':
			i = copyComment(&out, source, i)
		case c == ':' && i+1 < len(source) && source[i+1] == '=':
			out.WriteString(":=")
			i += 2
		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKeywordChar(source[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j
		case c == '-' && i > 0 && i+1 < len(source) && isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// copyLiteral copies the string literal opening at start, quotes included,
// and returns the index just past it. An unterminated literal runs to the
// end of the source.
func copyLiteral(out *strings.Builder, src string, start int, escapes bool) int {
	quote := src[start]
	i := start + 1
	for i < len(src) && src[i] != quote {
		if escapes && src[i] == '\\' && i+1 < len(src) {
			i += 2
			continue
		}
		i++
	}
	if i < len(src) {
		i++
	}
	out.WriteString(src[start:i])
	return i
}

func copyComment(out *strings.Builder, src string, start int) int {
	i := start
	for i < len(src) && src[i] == ';' {
		i++
	}
	end := strings.IndexByte(src[i:], '\n')
	if end < 0 {
		end = len(src) - i
	}
	out.WriteString("//")
	out.WriteString(src[i : i+end])
	return i + end
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

func isKeywordChar(c byte) bool { return isIdentChar(c) || c == '-' }
