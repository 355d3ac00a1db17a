package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projectlv/accounts/internal/core/domain"
	"github.com/projectlv/accounts/internal/core/ports"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on a MongoDB collection.
// Per-record atomicity comes from single-document updates with conditional
// filters; nothing here takes an application-level lock.
type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

type mongoUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Fullname         string             `bson:"fullname"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password_hash"`
	Role             string             `bson:"role"`
	IsActive         bool               `bson:"is_active"`
	ResetTokenHash   *string            `bson:"reset_token_hash,omitempty"`
	ResetTokenExpiry *time.Time         `bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:           mu.ID.Hex(),
		Fullname:     mu.Fullname,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		IsActive:     mu.IsActive,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
	if mu.ResetTokenHash != nil && mu.ResetTokenExpiry != nil {
		h, exp := *mu.ResetTokenHash, mu.ResetTokenExpiry.UTC()
		u.ResetTokenHash, u.ResetTokenExpiry = &h, &exp
	}
	return u
}

// unsetReset removes both reset fields in the same update.
var unsetReset = bson.M{"reset_token_hash": "", "reset_token_expiry": ""}

// resetCASFilter matches the user only while the given reset hash is pending,
// so a newer request is never cleared by an older one.
func resetCASFilter(oid primitive.ObjectID, tokenHash string) bson.M {
	return bson.M{"_id": oid, "reset_token_hash": tokenHash}
}

func clearResetUpdate(now time.Time) bson.M {
	return bson.M{"$unset": unsetReset, "$set": bson.M{"updated_at": now.UTC()}}
}

// redeemFilter matches a pending reset whose expiry is strictly after now.
func redeemFilter(tokenHash string, now time.Time) bson.M {
	return bson.M{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": bson.M{"$gt": now.UTC()},
	}
}

// passwordCASFilter matches the user only if the password is still oldHash.
func passwordCASFilter(oid primitive.ObjectID, oldHash string) bson.M {
	return bson.M{"_id": oid, "password_hash": oldHash}
}

// passwordUpdate sets a new hash and drops any pending reset in one write.
func passwordUpdate(passwordHash string, now time.Time) bson.M {
	return bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": now.UTC()},
		"$unset": unsetReset,
	}
}

func expiredResetFilter(now time.Time) bson.M {
	return bson.M{"reset_token_expiry": bson.M{"$lte": now.UTC()}}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC()
	doc := mongoUser{
		Fullname:     user.Fullname,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, storeErr("insert user", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("find user", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": r.now().UTC()}
	if patch.Fullname != nil {
		set["fullname"] = *patch.Fullname
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmailTaken
		}
		return nil, storeErr("update user", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, storeErr("count users", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, storeErr("list users", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storeErr("decode users", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, total, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": expiry.UTC(),
		"updated_at":         r.now().UTC(),
	}})
	if err != nil {
		return storeErr("set reset token", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id, tokenHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx, resetCASFilter(oid, tokenHash), clearResetUpdate(r.now()))
	if err != nil {
		return storeErr("clear reset token", err)
	}
	return nil
}

func (r *UserRepository) RedeemResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx, redeemFilter(tokenHash, now), passwordUpdate(passwordHash, r.now()), opts).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidOrExpiredResetToken
		}
		return nil, storeErr("redeem reset token", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, oldHash, newHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(updateCtx, passwordCASFilter(oid, oldHash), passwordUpdate(newHash, r.now()))
	if err != nil {
		return storeErr("update password", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx, expiredResetFilter(now), bson.M{"$unset": unsetReset})
	if err != nil {
		return 0, storeErr("clear expired reset tokens", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the unique email index and the reset-token lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "reset_token_hash", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("reset_token_hash"),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
