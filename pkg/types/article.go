package types

// Article is read-only context from the content backend, attached to a
// question. This layer never mutates articles.
type Article struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Author        string           `json:"author"`
	PublishedDate string           `json:"published_date"`
	Content       []map[string]any `json:"content"`
	MainImageURL  string           `json:"main_image_url,omitempty"`
	IsKeyEvent    bool             `json:"isKeyEvent,omitempty"`
}

// Cluster is a topic grouping of articles from the content backend.
type Cluster struct {
	ClusterTopic string   `json:"cluster_topic"`
	ArticleIDs   []string `json:"article_ids"`
}
