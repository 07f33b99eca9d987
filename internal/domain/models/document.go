// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalysisDocument is how an analysis document is stored in the
// analysis_documents collection when the dashboard reads from MongoDB.
// Body holds the document itself as an embedded BSON document, so its key
// order survives the round trip.
type AnalysisDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Body      bson.Raw           `bson:"body" json:"-"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
