package models

import "strings"

// ImageRefPrefix marks an image_url value that points at a stored blob
// rather than an external URL.
const ImageRefPrefix = "db-image:"

// ImageRef builds the database reference for a stored image.
func ImageRef(id string) string {
	return ImageRefPrefix + id
}

// ImageIDFromRef extracts the image ID from a "db-image:{id}" reference.
func ImageIDFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, ImageRefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, ImageRefPrefix), true
}

// ImageRecord stores a submitted photo directly in the database as a base64
// data URI. Observations reference it as "db-image:{id}".
type ImageRecord struct {
	ID        string `bson:"_id" json:"id"`
	Data      string `bson:"data" json:"data"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
