package render

import "bytes"

// Inject splices res into a full HTML page: HTMLAttrs and BodyAttrs at the
// end of the <html> and <body> open tags, HeadTags before </head> and
// BodyTags before the last </body>. Missing anchors are skipped. page is not
// modified.
func Inject(page []byte, res Result) []byte {
	out := make([]byte, 0, len(page)+len(res.HeadTags)+len(res.BodyTags)+len(res.HTMLAttrs)+len(res.BodyAttrs))
	out = append(out, page...)

	// Later anchors first so earlier offsets stay valid.
	if res.BodyTags != "" {
		if i := closeTagStart(out, "body", true); i >= 0 {
			out = insertAt(out, i, res.BodyTags)
		}
	}
	if res.BodyAttrs != "" {
		if i := openTagEnd(out, "body"); i >= 0 {
			out = insertAt(out, i, res.BodyAttrs)
		}
	}
	if res.HeadTags != "" {
		if i := closeTagStart(out, "head", false); i >= 0 {
			out = insertAt(out, i, res.HeadTags)
		}
	}
	if res.HTMLAttrs != "" {
		if i := openTagEnd(out, "html"); i >= 0 {
			out = insertAt(out, i, res.HTMLAttrs)
		}
	}
	return out
}

func insertAt(b []byte, i int, s string) []byte {
	b = append(b, s...)
	copy(b[i+len(s):], b[i:len(b)-len(s)])
	copy(b[i:], s)
	return b
}

// openTagEnd returns the offset of the '>' closing the first <name ...> open
// tag, or of the "/>" of a self-closed one.
func openTagEnd(b []byte, name string) int {
	from := 0
	for {
		i := indexFold(b[from:], "<"+name)
		if i < 0 {
			return -1
		}
		start := from + i + 1 + len(name)
		if start < len(b) && isTagNameEnd(b[start]) {
			end := bytes.IndexByte(b[start:], '>')
			if end < 0 {
				return -1
			}
			end += start
			if end > start && b[end-1] == '/' {
				end--
			}
			return end
		}
		from = start
	}
}

// closeTagStart returns the offset of the first, or last, </name> tag.
func closeTagStart(b []byte, name string, last bool) int {
	sub := "</" + name
	match := func(i int) bool {
		end := i + len(sub)
		return equalFoldASCII(b[i:end], sub) && (end == len(b) || isTagNameEnd(b[end]))
	}
	if last {
		for i := len(b) - len(sub); i >= 0; i-- {
			if match(i) {
				return i
			}
		}
		return -1
	}
	for i := 0; i+len(sub) <= len(b); i++ {
		if match(i) {
			return i
		}
	}
	return -1
}

func isTagNameEnd(c byte) bool {
	switch c {
	case '>', '/', ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func indexFold(b []byte, sub string) int {
	for i := 0; i+len(sub) <= len(b); i++ {
		if equalFoldASCII(b[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(b []byte, s string) bool {
	for i := 0; i < len(s); i++ {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}
