package entity

// Avatar is the display avatar the UI renders. When the source row carries no
// avatar the mappers fall back to a text avatar holding the first rune of the
// display name.
type Avatar struct {
	Type string `json:"type"` // "text" | "image"
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}
