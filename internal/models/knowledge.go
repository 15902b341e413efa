package models

// KnowledgeSnippet is a curated biodiversity fact, looked up by tag during
// context retrieval. Read-only from the pipelines' perspective.
type KnowledgeSnippet struct {
	ID      string   `bson:"_id" json:"id"`
	Content string   `bson:"content" json:"content"`
	Tags    []string `bson:"tags" json:"tags"`
}
