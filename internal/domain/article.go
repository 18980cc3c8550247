package domain

// Article is the content published by an actor in a turn.
type Article struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	PolishedContent string   `json:"polished_content,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	Source          string   `json:"source,omitempty"`
	Author          string   `json:"author,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
	TargetPlatform  string   `json:"target_platform,omitempty"`
	Veracity        Veracity `json:"veracity,omitempty"`
}

// Body returns the polished content when present, the raw content otherwise.
func (a Article) Body() string {
	if a.PolishedContent != "" {
		return a.PolishedContent
	}
	return a.Content
}

// News is a seed article supplied to the AI writer.
type News struct {
	NewsID   int64    `json:"news_id" yaml:"-"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Veracity Veracity `json:"veracity" yaml:"veracity"`
	Category string   `json:"category,omitempty" yaml:"category"`
	Source   string   `json:"source,omitempty" yaml:"source"`
	IsActive bool     `json:"is_active" yaml:"is_active"`
}
