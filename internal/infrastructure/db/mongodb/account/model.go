package account

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type (
	Account struct {
		ID           primitive.ObjectID `bson:"_id,omitempty"`
		Name         string             `bson:"name"`
		Email        string             `bson:"email"`
		Phone        string             `bson:"phone"`
		Password     string             `bson:"password"`
		ProfileImage string             `bson:"profileImage"`
		AccountType  string             `bson:"accountType"`
		Status       string             `bson:"status"`

		CreatedAt time.Time `bson:"createdAt"`
		UpdatedAt time.Time `bson:"updatedAt"`
	}
	Accounts []*Account
)
