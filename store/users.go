package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/compro/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entityUser = "user"

const firstUserClaim = "first_user"

// CountUsers returns the number of documents in the users collection.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	n, err := db.Users().CountDocuments(ctx, bson.M{})
	return n, mongoErr(entityUser, err)
}

// CountUsersWithRole returns the number of users whose role set contains role.
func (db *DB) CountUsersWithRole(ctx context.Context, role string) (int64, error) {
	n, err := db.Users().CountDocuments(ctx, bson.M{"roles": role})
	return n, mongoErr(entityUser, err)
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.Roles == nil {
		user.Roles = []string{}
	}
	_, err := db.Users().InsertOne(ctx, user)
	return mongoErr(entityUser, err)
}

// ClaimFirstUser inserts the bootstrap marker; the unique _id lets only one caller win.
func (db *DB) ClaimFirstUser(ctx context.Context, userID string) (bool, error) {
	_, err := db.Bootstrap().InsertOne(ctx, bson.M{
		"_id":       firstUserClaim,
		"userId":    userID,
		"claimedAt": time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, mongoErr(entityUser, err)
	}
	return true, nil
}

func (db *DB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := db.Users().FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mongoErr(entityUser, err)
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"_id": id})
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"email": email})
}

func (db *DB) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.findUser(ctx, bson.M{"username": username})
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, mongoErr(entityUser, err)
	}
	defer cur.Close(ctx)
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, mongoErr(entityUser, err)
	}
	return users, nil
}

func (db *DB) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.FullName != nil {
		set["fullName"] = *upd.FullName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["passwordHash"] = *upd.PasswordHash
	}
	if upd.Roles != nil {
		set["roles"] = *upd.Roles
	}
	if upd.EmailVerified != nil {
		set["emailVerified"] = *upd.EmailVerified
	}
	res, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mongoErr(entityUser, err)
	}
	if res.MatchedCount == 0 {
		return NotFound(entityUser)
	}
	return nil
}

// DeleteUser removes the user and every post they authored.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.Users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(entityUser, err)
	}
	if res.DeletedCount == 0 {
		return NotFound(entityUser)
	}
	if _, err := db.Posts().DeleteMany(ctx, bson.M{"authorId": id}); err != nil {
		return mongoErr(entityPost, err)
	}
	// a claim held by a deleted user is released so bootstrap can run again
	if _, err := db.Bootstrap().DeleteOne(ctx, bson.M{"_id": firstUserClaim, "userId": id}); err != nil {
		return mongoErr(entityUser, err)
	}
	return nil
}
