package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Account is a registered user. Password holds the bcrypt hash of the
// secret and is never serialized to JSON.
type Account struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
}
