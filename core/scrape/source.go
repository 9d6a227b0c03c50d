package scrape

import "fmt"

// Mode selects how a Source is acquired.
type Mode int

const (
	// ModeURL fetches the document over HTTP.
	ModeURL Mode = iota
	// ModeHTML parses an inline body fragment.
	ModeHTML
)

func (m Mode) String() string {
	switch m {
	case ModeURL:
		return "url"
	case ModeHTML:
		return "html"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Source is where a document comes from: a URL or an HTML fragment.
type Source struct {
	Mode  Mode
	Value string
}

// URL returns a Source fetched from u.
func URL(u string) Source {
	return Source{Mode: ModeURL, Value: u}
}

// HTML returns a Source parsed from the fragment h.
func HTML(h string) Source {
	return Source{Mode: ModeHTML, Value: h}
}

// String describes the source for logs without dumping fragments.
func (s Source) String() string {
	if s.Mode == ModeHTML {
		return fmt.Sprintf("html(%d bytes)", len(s.Value))
	}
	return s.Value
}
