package models

// SpeciesSuggestion is one ranked candidate produced by the identification
// pipeline. ScientificName is omitted when no source could supply one.
type SpeciesSuggestion struct {
	Name           string  `bson:"name" json:"name"`
	ScientificName string  `bson:"scientific_name,omitempty" json:"scientific_name,omitempty"`
	Confidence     float64 `bson:"confidence" json:"confidence"`
}

// Identification wraps the suggestion list stored on an observation.
type Identification struct {
	Suggestions []SpeciesSuggestion `bson:"suggestions" json:"suggestions"`
}

// Observation is a user-submitted sighting. Written once on submission and
// never mutated; keyed by a generated UUID.
type Observation struct {
	ID               string          `bson:"_id" json:"observation_id"`
	SpeciesName      string          `bson:"species_name" json:"species_name"`
	CommonName       string          `bson:"common_name" json:"common_name"`
	DateObserved     string          `bson:"date_observed" json:"date_observed"`
	Location         string          `bson:"location" json:"location"`
	ImageURL         string          `bson:"image_url" json:"image_url"`
	Notes            string          `bson:"notes" json:"notes"`
	AIIdentification *Identification `bson:"ai_identification,omitempty" json:"ai_identification,omitempty"`
	CreatedAt        int64           `bson:"created_at" json:"created_at"`
}
