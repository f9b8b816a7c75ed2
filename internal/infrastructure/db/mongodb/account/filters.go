package account

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "manager-account-api/internal/domain/account"
)

func listFilter(f domain.ListFilter) bson.M {
	if f.AccountType == "" {
		return bson.M{}
	}
	return bson.M{
		"accountType": string(f.AccountType),
		"status":      bson.M{"$ne": string(domain.StatusDeleted)},
	}
}

// searchFilter matches the literal term anywhere in name, email or phone.
func searchFilter(f domain.SearchFilter) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Term), Options: "i"}
	filter := bson.M{
		"status": string(domain.StatusActive),
		"$or": bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"phone": re},
		},
	}
	if oid, err := primitive.ObjectIDFromHex(f.ExcludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter
}

func newestFirst(offset, limit int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
}
