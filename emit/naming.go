package emit

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/patternkit/model"
)

var keywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "checked": true, "class": true, "const": true,
	"continue": true, "decimal": true, "default": true, "delegate": true, "do": true,
	"double": true, "else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true, "float": true, "for": true,
	"foreach": true, "goto": true, "if": true, "implicit": true, "in": true, "int": true,
	"interface": true, "internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true, "operator": true,
	"out": true, "override": true, "params": true, "private": true, "protected": true,
	"public": true, "readonly": true, "ref": true, "return": true, "sbyte": true,
	"sealed": true, "short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

// Ident escapes reserved words with @
func Ident(s string) string {
	if keywords[s] {
		return "@" + s
	}
	return s
}

// Camel lowercases the leading rune: "OrderId" -> "orderId", escaping keywords
func Camel(s string) string {
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return s
	}
	runes := []rune(s)
	// leading acronym: "IOStream" -> "ioStream"
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
		i++
	}
	return Ident(string(runes))
}

// Pascal uppercases the leading rune
func Pascal(s string) string {
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Field renders a private field name: "Inner" -> "_inner"
func Field(s string) string {
	return "_" + strings.TrimPrefix(Camel(s), "@")
}

// StripInterfacePrefix drops the conventional leading I: "IOrderService" ->
// "OrderService". Names like "Item" are left alone.
func StripInterfacePrefix(s string) string {
	runes := []rune(s)
	if len(runes) > 1 && runes[0] == 'I' && unicode.IsUpper(runes[1]) {
		return string(runes[1:])
	}
	return s
}

// Literal quotes s as a C# regular string literal
func Literal(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				h := strconv.FormatInt(int64(r), 16)
				sb.WriteString(strings.Repeat("0", 4-len(h)))
				sb.WriteString(h)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Type renders a type for use in generated text
func Type(t model.TypeRef) string {
	return t.Qualified()
}

// Parameters renders a parameter list without parentheses:
// "ref int count, string name = \"x\"". Defaults are kept only when
// withDefaults is set; overriding members must not repeat them.
func Parameters(ps []model.Parameter, withDefaults bool) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		var sb strings.Builder
		if p.IsParams {
			sb.WriteString("params ")
		}
		if kw := p.RefKind.Keyword(); kw != "" {
			sb.WriteString(kw)
			sb.WriteByte(' ')
		}
		sb.WriteString(Type(p.Type))
		sb.WriteByte(' ')
		sb.WriteString(Ident(p.Name))
		if withDefaults && p.HasDefault {
			sb.WriteString(" = ")
			sb.WriteString(p.Default)
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, ", ")
}

// Arguments renders the call-site argument list for ps: "ref count, name"
func Arguments(ps []model.Parameter) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		if kw := p.RefKind.Keyword(); kw != "" {
			parts[i] = kw + " " + Ident(p.Name)
			continue
		}
		parts[i] = Ident(p.Name)
	}
	return strings.Join(parts, ", ")
}

// Unique returns base, or base followed by the first counter that avoids taken
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
