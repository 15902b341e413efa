package models

// Question records a single asked question together with the answer that was
// returned, regardless of which answer source produced it.
type Question struct {
	ID        string `bson:"_id" json:"id"`
	Text      string `bson:"text" json:"text"`
	Answer    string `bson:"answer" json:"answer"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
