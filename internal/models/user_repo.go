package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	ConfirmEmail(ctx context.Context, id primitive.ObjectID) error
	SetPasswordResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update bson.M) (*User, error)
	SetHiddenFields(ctx context.Context, id primitive.ObjectID, fields []string) error
	SetProfileImage(ctx context.Context, id primitive.ObjectID, image *ProfileImage) error
	RemoveProfileImage(ctx context.Context, id primitive.ObjectID) error
	SearchByEmail(ctx context.Context, email string) ([]*User, error)
	SearchByName(ctx context.Context, terms []string) ([]*User, error)
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := mdb.collection(UsersColName).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) findOneUser(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := mdb.collection(UsersColName).FindOne(ctx, notDeleted(filter)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findOneUser(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return mdb.findOneUser(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return mdb.findOneUser(ctx, bson.M{"googleId": googleID})
}

func (mdb *MongodbRepo) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now()

	res, err := mdb.collection(UsersColName).UpdateOne(ctx, notDeleted(bson.M{"_id": id}), update)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) ConfirmEmail(ctx context.Context, id primitive.ObjectID) error {
	return mdb.updateUser(ctx, id, bson.M{
		"$set":   bson.M{"isConfirmed": true},
		"$unset": bson.M{"otps.confirmation": ""},
	})
}

func (mdb *MongodbRepo) SetPasswordResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string) error {
	return mdb.updateUser(ctx, id, bson.M{
		"$set": bson.M{"otps.passwordReset": otpHash},
	})
}

func (mdb *MongodbRepo) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return mdb.updateUser(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"otps.passwordReset": ""},
	})
}

func (mdb *MongodbRepo) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	return mdb.updateUser(ctx, id, bson.M{"$set": bson.M{"email": email}})
}

func (mdb *MongodbRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, update bson.M) (*User, error) {
	update["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := mdb.collection(UsersColName).
		FindOneAndUpdate(ctx, notDeleted(bson.M{"_id": id}), bson.M{"$set": update}, opts).
		Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) SetHiddenFields(ctx context.Context, id primitive.ObjectID, fields []string) error {
	return mdb.updateUser(ctx, id, bson.M{"$set": bson.M{"hiddenFields": fields}})
}

func (mdb *MongodbRepo) SetProfileImage(ctx context.Context, id primitive.ObjectID, image *ProfileImage) error {
	return mdb.updateUser(ctx, id, bson.M{"$set": bson.M{"profileImage": image}})
}

func (mdb *MongodbRepo) RemoveProfileImage(ctx context.Context, id primitive.ObjectID) error {
	return mdb.updateUser(ctx, id, bson.M{"$unset": bson.M{"profileImage": ""}})
}

// searchProjection keeps directory lookups to non-sensitive fields.
var searchProjection = bson.M{"firstName": 1, "lastName": 1, "profileImage": 1, "bio": 1}

func (mdb *MongodbRepo) searchUsers(ctx context.Context, filter bson.M) ([]*User, error) {
	opts := options.Find().SetProjection(searchProjection)
	cursor, err := mdb.collection(UsersColName).Find(ctx, notDeleted(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}
	return users, nil
}

func (mdb *MongodbRepo) SearchByEmail(ctx context.Context, email string) ([]*User, error) {
	return mdb.searchUsers(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) SearchByName(ctx context.Context, terms []string) ([]*User, error) {
	var filter bson.M
	if len(terms) == 2 {
		// Full name like "John Doe", either order.
		filter = bson.M{"$or": bson.A{
			bson.M{
				"firstName": primitive.Regex{Pattern: terms[0], Options: "i"},
				"lastName":  primitive.Regex{Pattern: terms[1], Options: "i"},
			},
			bson.M{
				"firstName": primitive.Regex{Pattern: terms[1], Options: "i"},
				"lastName":  primitive.Regex{Pattern: terms[0], Options: "i"},
			},
		}}
	} else {
		regex := primitive.Regex{Pattern: terms[0], Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"firstName": regex},
			bson.M{"lastName": regex},
		}}
	}
	return mdb.searchUsers(ctx, filter)
}
