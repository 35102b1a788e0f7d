package htmlx

import "testing"

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"named", "Tom &amp; Jerry", "Tom & Jerry"},
		{"lt-gt", "a &lt;b&gt;", "a <b>"},
		{"nbsp", "a&nbsp;b", "a b"},
		{"decimal", "&#65;&#66;", "AB"},
		{"hex", "&#x41;&#x42;", "AB"},
		{"unknown passes through", "&notarealentity;", "&notarealentity;"},
		{"no ampersand", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeEntities(tt.in); got != tt.want {
				t.Errorf("DecodeEntities(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips script and style",
			`<div>hello<script>var x=1;</script><style>.a{}</style>world</div>`,
			"helloworld",
		},
		{
			"br and block close become spaces",
			`<p>one</p><p>two<br>three</p>`,
			"one two three",
		},
		{
			"decodes entities after tag strip",
			`<b>Tom &amp; Jerry</b>`,
			"Tom & Jerry",
		},
		{
			"collapses whitespace",
			"<div>  a   \n\t b  </div>",
			"a b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.in); got != tt.want {
				t.Errorf("ExtractText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindElements(t *testing.T) {
	src := `
	<div class="result foo"><h3>One</h3></div>
	<div id="main"><span>Two</span></div>
	<div class="result"><span>Three <div class="result">Nested</div></span></div>
	<a href="/x">link</a>
	<img src="/i.png">
	`

	t.Run("tag.class", func(t *testing.T) {
		got := FindElements(src, "div.result")
		if len(got) != 2 {
			t.Fatalf("got %d elements, want 2: %v", len(got), got)
		}
	})

	t.Run("tag#id", func(t *testing.T) {
		got := FindElements(src, "div#main")
		if len(got) != 1 {
			t.Fatalf("got %d elements, want 1", len(got))
		}
	})

	t.Run("nesting respected", func(t *testing.T) {
		got := FindElements(src, "div.result")
		if len(got) < 2 || got[1] == "" {
			t.Fatalf("expected nested result to be captured whole: %v", got)
		}
		if !contains(got[1], "Nested") {
			t.Errorf("expected outer div.result to contain nested content: %q", got[1])
		}
	})

	t.Run("attr selector", func(t *testing.T) {
		got := FindElements(src, `a[href="/x"]`)
		if len(got) != 1 {
			t.Fatalf("got %d elements, want 1", len(got))
		}
	})

	t.Run("void element", func(t *testing.T) {
		got := FindElements(src, "img")
		if len(got) != 1 {
			t.Fatalf("got %d elements, want 1", len(got))
		}
	})

	t.Run("attr only, any tag", func(t *testing.T) {
		got := FindElements(src, `[class="main"]`)
		if len(got) != 0 {
			t.Fatalf("expected 0 (id, not class), got %d", len(got))
		}
	})

	t.Run("malformed input yields no panic and empty result", func(t *testing.T) {
		got := FindElements("<div class=", "div.result")
		if len(got) != 0 {
			t.Errorf("expected no matches for malformed input, got %v", got)
		}
	})
}

func TestFindElementsUnclosedBounded(t *testing.T) {
	src := "<div class=\"result\">" + "x" // never closed
	got := FindElements(src, "div.result")
	if len(got) != 1 {
		t.Fatalf("expected bounded heuristic match, got %d", len(got))
	}
}

func TestAttributeValue(t *testing.T) {
	got := AttributeValue(`<a href="https://example.com" data-x="1">text</a>`, "href")
	if got != "https://example.com" {
		t.Errorf("AttributeValue = %q", got)
	}
}

func TestXMLPrimitives(t *testing.T) {
	src := `<feed>
		<entry><title>First &amp; Best</title><author><name>Alice</name></author></entry>
		<entry><title>Second</title><link title="pdf" href="https://x/1.pdf"/></entry>
	</feed>`

	entries := GetElementsByTagName(src, "entry")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	title := GetTextContent(entries[0], "title")
	if title != "First & Best" {
		t.Errorf("GetTextContent title = %q", title)
	}

	href := GetElementAttribute(entries[1], "link", "href")
	if href != "https://x/1.pdf" {
		t.Errorf("GetElementAttribute href = %q", href)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
