package services

import (
	"context"
	"fmt"
	"log/slog"

	"wildwatch/internal/database"
	"wildwatch/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// KnowledgeStore reads the curated biodiversity knowledge base. The
// pipelines treat it as read-only; the only write path is the startup seed.
type KnowledgeStore struct {
	collection *mongo.Collection
}

// NewKnowledgeStore creates a new knowledge store
func NewKnowledgeStore(mongodb *database.MongoDB) *KnowledgeStore {
	return &KnowledgeStore{
		collection: mongodb.Collection(database.CollectionKnowledge),
	}
}

// FindByTag returns snippets whose tag set contains the tag
func (s *KnowledgeStore) FindByTag(ctx context.Context, tag string) ([]models.KnowledgeSnippet, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"tags": tag})
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	defer cursor.Close(ctx)

	var snippets []models.KnowledgeSnippet
	if err := cursor.All(ctx, &snippets); err != nil {
		return nil, fmt.Errorf("failed to decode snippets: %w", err)
	}
	return snippets, nil
}

// SeedIfEmpty inserts the built-in snippet set when the collection has no
// documents. Safe to run on every startup.
func (s *KnowledgeStore) SeedIfEmpty(ctx context.Context) error {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count knowledge base: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(seedSnippets))
	for _, snippet := range seedSnippets {
		snippet.ID = uuid.New().String()
		docs = append(docs, snippet)
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed knowledge base: %w", err)
	}

	slog.Info("Seeded knowledge base", "snippets", len(docs))
	return nil
}

// seedSnippets is the built-in knowledge base about the Islamabad region.
// Tags are the lower-cased keywords questions are matched against.
var seedSnippets = []models.KnowledgeSnippet{
	{
		Content: "Islamabad is located at the edge of the Potohar Plateau and contains diverse habitats ranging from subtropical pine forest to scrubland and wetlands.",
		Tags:    []string{"islamabad", "potohar", "plateau", "habitat", "habitats"},
	},
	{
		Content: "Margalla Hills National Park is located north of Islamabad, covers about 17,000 hectares, and hosts over 600 plant species, 250 bird species, 38 mammals, and 13 reptile species.",
		Tags:    []string{"margalla", "hills", "park", "species", "biodiversity"},
	},
	{
		Content: "The common leopard (Panthera pardus) is the apex predator of the Margalla Hills, feeding mainly on wild boar, barking deer, and rhesus monkeys.",
		Tags:    []string{"leopard", "leopards", "panthera", "predator", "predators"},
	},
	{
		Content: "Rawal Lake is a major water reservoir for Islamabad and an important wintering habitat for migratory waterfowl arriving from Central Asia between November and February.",
		Tags:    []string{"rawal", "lake", "migratory", "waterfowl", "birds"},
	},
	{
		Content: "The Margalla Hills are part of the Himalayan foothills; their vegetation is dominated by Chir Pine (Pinus roxburghii) at higher elevations and Phulai (Acacia modesta) scrub lower down.",
		Tags:    []string{"margalla", "pine", "chir", "phulai", "vegetation", "trees"},
	},
	{
		Content: "The Rhesus Macaque (Macaca mulatta) is the most visible mammal of the Margalla Hills and has adapted to human presence along the hiking trails.",
		Tags:    []string{"rhesus", "macaque", "monkey", "monkeys", "trails"},
	},
	{
		Content: "Reptiles of the Potohar region include the Indian Cobra (Naja naja), Saw-scaled Viper (Echis carinatus), and several monitor lizard species.",
		Tags:    []string{"snake", "snakes", "reptile", "reptiles", "cobra", "viper"},
	},
	{
		Content: "Islamabad has a humid subtropical climate with five seasons: winter, spring, summer, monsoon, and autumn; the climatic variation supports distinct ecological niches.",
		Tags:    []string{"climate", "weather", "season", "seasons", "monsoon"},
	},
	{
		Content: "Notable birds of the Islamabad region include the Indian Peafowl (Pavo cristatus), Grey Francolin (Francolinus pondicerianus), Spotted Owlet (Athene brama), and Hoopoe (Upupa epops).",
		Tags:    []string{"bird", "birds", "peafowl", "francolin", "owlet", "hoopoe"},
	},
	{
		Content: "Conservation pressure on the Margalla Hills ecosystem comes from deforestation, urban encroachment, and illegal hunting; the Islamabad Wildlife Management Board coordinates protection efforts.",
		Tags:    []string{"conservation", "threat", "threats", "hunting", "deforestation", "wildlife"},
	},
}
