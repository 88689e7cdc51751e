package runtime

import (
	"strconv"
	"strings"
)

// FormatSpec applies a (small, practical) subset of the host language's
// format mini-language to v: fixed-point/precision for floats ("f", ".2f"),
// width/alignment for strings and numbers, and "d"/"x"/"o"/"b" integer
// bases, plus "%". Grounded on SPEC_FULL.md §3's f-string format-spec
// supplement.
func FormatSpec(v Value, spec string) string {
	if spec == "" {
		return v.String()
	}
	align, fill, width, precision, kind := parseSpec(spec)

	var body string
	switch kind {
	case 'f':
		f, ok := AsFloat(v)
		if !ok {
			body = v.String()
			break
		}
		if precision < 0 {
			precision = 6
		}
		body = strconv.FormatFloat(f, 'f', precision, 64)
	case 'd':
		bi, ok := AsBigInt(v)
		if !ok {
			body = v.String()
			break
		}
		body = bi.String()
	case 'x':
		bi, ok := AsBigInt(v)
		if !ok {
			body = v.String()
			break
		}
		body = bi.Text(16)
	case 'o':
		bi, ok := AsBigInt(v)
		if !ok {
			body = v.String()
			break
		}
		body = bi.Text(8)
	case 'b':
		bi, ok := AsBigInt(v)
		if !ok {
			body = v.String()
			break
		}
		body = bi.Text(2)
	case '%':
		f, ok := AsFloat(v)
		if !ok {
			body = v.String()
			break
		}
		if precision < 0 {
			precision = 6
		}
		body = strconv.FormatFloat(f*100, 'f', precision, 64) + "%"
	default:
		if precision >= 0 {
			if f, ok := AsFloat(v); ok {
				body = strconv.FormatFloat(f, 'g', precision, 64)
			} else {
				s := v.String()
				if precision < len(s) {
					s = s[:precision]
				}
				body = s
			}
		} else {
			body = v.String()
		}
	}

	if width <= len(body) {
		return body
	}
	pad := strings.Repeat(string(fill), width-len(body))
	switch align {
	case '<':
		return body + pad
	case '^':
		left := (width - len(body)) / 2
		right := width - len(body) - left
		return strings.Repeat(string(fill), left) + body + strings.Repeat(string(fill), right)
	default: // '>'
		return pad + body
	}
}

// parseSpec parses a cut-down {:[[fill]align][width][.precision][type]}
// spec body (the colon itself already stripped by the caller).
func parseSpec(spec string) (align rune, fill rune, width int, precision int, kind rune) {
	align, fill, precision = '>', ' ', -1
	i := 0
	runes := []rune(spec)
	if len(runes) >= 2 && isAlign(runes[1]) {
		fill, align = runes[0], runes[1]
		i = 2
	} else if len(runes) >= 1 && isAlign(runes[0]) {
		align = runes[0]
		i = 1
	}
	start := i
	for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9') {
		i++
	}
	if i > start {
		width, _ = strconv.Atoi(string(runes[start:i]))
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		start = i
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			i++
		}
		precision, _ = strconv.Atoi(string(runes[start:i]))
	}
	if i < len(runes) {
		kind = runes[i]
	}
	return
}

func isAlign(r rune) bool { return r == '<' || r == '>' || r == '^' }
