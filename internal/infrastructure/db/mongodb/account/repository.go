package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"manager-account-api/internal/domain/account"
)

const (
	collection = "accounts"

	emailIndex = "accounts_email_unique"
	phoneIndex = "accounts_phone_unique"
	nameIndex  = "accounts_name"
)

type Repository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ account.Repository = (*Repository)(nil)

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		coll: db.Collection(collection),
		now:  time.Now,
	}
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndex),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(phoneIndex),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName(nameIndex),
		},
	})
	return err
}

func (r *Repository) FindByID(ctx context.Context, id account.ID) (*account.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByEmailOrPhone prefers an email match over a phone match.
func (r *Repository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*account.Account, error) {
	a, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil || a != nil {
		return a, err
	}
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *Repository) Create(ctx context.Context, req account.Account) (*account.Account, error) {
	m := toDBModel(req)
	now := r.now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), phoneIndex) {
				return nil, account.ErrPhoneAlreadyExists
			}
			return nil, account.ErrEmailAlreadyExists
		}
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}

	return fromDBModel(m), nil
}

func (r *Repository) List(ctx context.Context, f account.ListFilter) (account.Accounts, error) {
	return r.find(ctx, listFilter(f), newestFirst(f.Offset, f.Limit))
}

func (r *Repository) Search(ctx context.Context, f account.SearchFilter) (account.Accounts, error) {
	return r.find(ctx, searchFilter(f), newestFirst(f.Offset, f.Limit))
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *Repository) UpdateProfile(
	ctx context.Context,
	id account.ID,
	name, profileImageURL string,
) (*account.Account, error) {
	return r.update(ctx, id, bson.M{"name": name, "profileImage": profileImageURL})
}

func (r *Repository) UpdatePassword(ctx context.Context, id account.ID, passwordHash string) (*account.Account, error) {
	return r.update(ctx, id, bson.M{"password": passwordHash})
}

func (r *Repository) UpdateStatus(ctx context.Context, id account.ID, status account.Status) (*account.Account, error) {
	return r.update(ctx, id, bson.M{"status": string(status)})
}

func (r *Repository) update(ctx context.Context, id account.ID, set bson.M) (*account.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	set["updatedAt"] = r.now().UTC()

	m := new(Account)
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m), nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*account.Account, error) {
	m := new(Account)
	if err := r.coll.FindOne(ctx, filter).Decode(m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m), nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) (account.Accounts, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	ms := Accounts{}
	if err = cur.All(ctx, &ms); err != nil {
		return nil, err
	}

	return fromDBModels(ms), nil
}
