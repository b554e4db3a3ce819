package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Author          string             `bson:"author" json:"author"`
	Genre           string             `bson:"genre" json:"genre"`
	PublicationDate int                `bson:"publicationDate" json:"publicationDate"`
	ImagePath       string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Fragment        string             `bson:"fragment,omitempty" json:"fragment,omitempty"`
}
