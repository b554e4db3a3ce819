package store

import (
	"go.mongodb.org/mongo-driver/bson"

	"libroteca/internal/usecase"
)

// buildFilter translates a normalized filter into the query
// document the driver executes. The substring search and the title
// value set land on the same field: both must hold.
func buildFilter(f usecase.BookFilter) bson.M {
	filter := bson.M{}

	title := bson.M{}
	if f.Search != "" {
		title["$regex"] = f.Search
		title["$options"] = "i"
	}
	if len(f.Titles) > 0 {
		title["$in"] = f.Titles
	}
	if len(title) > 0 {
		filter["title"] = title
	}

	if len(f.Genres) > 0 {
		filter["genre"] = bson.M{"$in": f.Genres}
	}
	if len(f.Authors) > 0 {
		filter["author"] = bson.M{"$in": f.Authors}
	}
	if f.Years != nil {
		filter["publicationDate"] = bson.M{"$gte": f.Years.From, "$lte": f.Years.To}
	}
	return filter
}
