package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"libroteca/internal/entity"
	"libroteca/internal/usecase"
)

const bookCollection = "books"

type BookMongo struct {
	col *mongo.Collection
}

func NewBookMongo(db *mongo.Database) *BookMongo {
	return &BookMongo{col: db.Collection(bookCollection)}
}

func (r *BookMongo) Find(ctx context.Context, p usecase.ListParams) ([]entity.Book, int64, error) {
	filter := buildFilter(p.Filter)

	opts := options.Find().SetSkip(int64(p.Offset))
	if p.Limit > 0 {
		opts.SetLimit(int64(p.Limit))
	}
	if p.Sort.Field != "" {
		direction := 1
		if p.Sort.Desc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: p.Sort.Field, Value: direction}})
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	books := []entity.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Facets collects the distinct value sets over the entire collection,
// never the filtered subset.
func (r *BookMongo) Facets(ctx context.Context) (usecase.BookFacets, error) {
	var facets usecase.BookFacets
	var err error

	if facets.Genres, err = r.distinctStrings(ctx, "genre"); err != nil {
		return usecase.BookFacets{}, err
	}
	if facets.Authors, err = r.distinctStrings(ctx, "author"); err != nil {
		return usecase.BookFacets{}, err
	}
	if facets.Titles, err = r.distinctStrings(ctx, "title"); err != nil {
		return usecase.BookFacets{}, err
	}

	years, err := r.col.Distinct(ctx, "publicationDate", bson.D{})
	if err != nil {
		return usecase.BookFacets{}, err
	}
	facets.PublicationDates = toInts(years)
	return facets, nil
}

func (r *BookMongo) GetByID(ctx context.Context, id string) (entity.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entity.Book{}, usecase.ErrNotFound
	}
	var book entity.Book
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.Book{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Book{}, err
	}
	return book, nil
}

func (r *BookMongo) Create(ctx context.Context, book *entity.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, book)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		book.ID = oid
	}
	return nil
}

func (r *BookMongo) Update(ctx context.Context, book *entity.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *BookMongo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return usecase.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *BookMongo) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := r.col.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// toInts narrows the driver's distinct results; numbers come back as
// int32, int64 or float64 depending on how they were stored.
func toInts(values []interface{}) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int32:
			out = append(out, int(n))
		case int64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		case float64:
			out = append(out, int(n))
		}
	}
	return out
}

// validateBook enforces the required-field invariant at write time;
// the store itself is schemaless.
func validateBook(b *entity.Book) error {
	switch {
	case b.Title == "":
		return fmt.Errorf("%w: title is required", usecase.ErrInvalidRecord)
	case b.Author == "":
		return fmt.Errorf("%w: author is required", usecase.ErrInvalidRecord)
	case b.Genre == "":
		return fmt.Errorf("%w: genre is required", usecase.ErrInvalidRecord)
	case b.PublicationDate == 0:
		return fmt.Errorf("%w: publicationDate is required", usecase.ErrInvalidRecord)
	}
	return nil
}
