// Package sqltext holds the few lexical helpers needed over catalogue SQL:
// placeholder counting and rebinding, and column reference discovery.
package sqltext

import (
	"regexp"
	"strconv"
	"strings"
)

// walk calls fn for every byte of query that is outside a quoted literal or identifier
func walk(query string, fn func(i int, c byte)) {
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			continue
		}
		fn(i, c)
	}
}

// Placeholders counts positional `?` markers
func Placeholders(query string) int {
	n := 0
	walk(query, func(_ int, c byte) {
		if c == '?' {
			n++
		}
	})
	return n
}

// Rebind rewrites `?` markers into `$1..$n` when dollar is true
func Rebind(query string, dollar bool) string {
	if !dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	last, n := 0, 0
	walk(query, func(i int, c byte) {
		if c != '?' {
			return
		}
		n++
		b.WriteString(query[last:i])
		b.WriteString("$" + strconv.Itoa(n))
		last = i + 1
	})
	b.WriteString(query[last:])
	return b.String()
}

var (
	tableAliasPattern = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s+(?:AS\s+)?([A-Za-z_][A-Za-z0-9_]*))?`)
	qualifiedPattern  = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)\b`)
)

var reserved = wordSet(`
	SELECT FROM WHERE GROUP BY ORDER HAVING LIMIT OFFSET WITH AS ON USING
	JOIN INNER LEFT RIGHT FULL OUTER CROSS NATURAL UNION ALL DISTINCT
	AND OR NOT IN IS NULL LIKE ILIKE BETWEEN EXISTS TRUE FALSE
	ASC DESC NULLS FIRST LAST CASE WHEN THEN ELSE END
	OVER PARTITION WINDOW ROWS RANGE PRECEDING FOLLOWING UNBOUNDED CURRENT ROW FILTER
	CAST INTERVAL INTEGER BIGINT DOUBLE FLOAT DECIMAL NUMERIC VARCHAR TEXT DATE
`)

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

func isReserved(word string) bool {
	return reserved[strings.ToUpper(word)]
}

// TableAliases maps every alias (and the bare name) of the given tables used in FROM/JOIN clauses
func TableAliases(query string, tables []string) map[string]string {
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[strings.ToLower(t)] = true
	}
	aliases := make(map[string]string)
	for _, m := range tableAliasPattern.FindAllStringSubmatch(query, -1) {
		table := strings.ToLower(m[1])
		if !known[table] {
			continue
		}
		aliases[table] = table
		if alias := m[2]; alias != "" && !isReserved(alias) {
			aliases[strings.ToLower(alias)] = table
		}
	}
	return aliases
}

// Ref is an alias qualified column reference such as o.country
type Ref struct {
	Qualifier string
	Column    string
}

func QualifiedRefs(query string) []Ref {
	var refs []Ref
	for _, m := range qualifiedPattern.FindAllStringSubmatch(query, -1) {
		refs = append(refs, Ref{Qualifier: strings.ToLower(m[1]), Column: m[2]})
	}
	return refs
}

var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|[0-9]+(?:\.[0-9]+)?|\S`)

// mask blanks out quoted literals and identifiers so they are never read as names
func mask(query string) string {
	b := []byte(query)
	var quote byte
	for i, c := range b {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b[i] = ' '
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b[i] = ' '
		}
	}
	return string(b)
}

func isIdent(tok string) bool {
	c := tok[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Names holds the unqualified identifiers of a query. Defined are the names the
// query introduces itself: column aliases, CTEs, FROM/JOIN sources and their
// aliases. Refs are every other bare name, i.e. column references.
type Names struct {
	Defined []string
	Refs    []string
}

// BareNames splits the unqualified identifiers of query into Names. Function
// names, reserved words and both halves of alias.column references are skipped.
func BareNames(query string) Names {
	toks := tokenPattern.FindAllString(mask(query), -1)
	at := func(i int) string {
		if i < 0 || i >= len(toks) {
			return ""
		}
		return toks[i]
	}
	upper := func(i int) string { return strings.ToUpper(at(i)) }

	var names Names
	for i, tok := range toks {
		if !isIdent(tok) || isReserved(tok) {
			continue
		}
		if at(i-1) == "." || at(i+1) == "." || at(i+1) == "(" {
			continue
		}
		prev := upper(i - 1)
		switch {
		case prev == "AS",
			prev == "FROM" || prev == "JOIN",
			upper(i+1) == "AS" && at(i+2) == "(",
			at(i-1) == ")",
			isSourceAlias(toks, i):
			names.Defined = append(names.Defined, tok)
		default:
			names.Refs = append(names.Refs, tok)
		}
	}
	return names
}

// isSourceAlias reports whether toks[i] directly follows a FROM/JOIN source
func isSourceAlias(toks []string, i int) bool {
	if i < 2 || !isIdent(toks[i-1]) || isReserved(toks[i-1]) {
		return false
	}
	kw := strings.ToUpper(toks[i-2])
	return kw == "FROM" || kw == "JOIN"
}
