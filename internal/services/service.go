package services

import (
	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID maps malformed hex ids to ErrNotFound, matching the
// HTTP contract where an unparseable id is indistinguishable from a
// missing record.
func parseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return id, nil
}
