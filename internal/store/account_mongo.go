package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"libroteca/internal/entity"
	"libroteca/internal/usecase"
)

const accountCollection = "accounts"

type AccountMongo struct {
	col *mongo.Collection
}

func NewAccountMongo(db *mongo.Database) *AccountMongo {
	return &AccountMongo{col: db.Collection(accountCollection)}
}

func (r *AccountMongo) GetByUsername(ctx context.Context, username string) (entity.Account, error) {
	var account entity.Account
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.Account{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Account{}, err
	}
	return account, nil
}

func (r *AccountMongo) Create(ctx context.Context, account *entity.Account) error {
	if account.Username == "" {
		return fmt.Errorf("%w: username is required", usecase.ErrInvalidRecord)
	}
	if account.Password == "" {
		return fmt.Errorf("%w: password is required", usecase.ErrInvalidRecord)
	}
	res, err := r.col.InsertOne(ctx, account)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid
	}
	return nil
}
