package cms

// Page sources
const (
	SourceCMS      = "cms"
	SourceFallback = "fallback"
)

type Page struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections"`
	Source      string    `json:"source"`
}

type Section struct {
	Key        string `json:"_key,omitempty"`
	Type       string `json:"_type"`
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
	BodyHTML   string `json:"bodyHtml,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
	Items      []Item `json:"items,omitempty"`
	CTA        *CTA   `json:"cta,omitempty"`
}

type Item struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
}

type CTA struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type PageRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
