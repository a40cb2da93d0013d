package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkup/internal/domain/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type userDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Name           string               `bson:"name"`
	Username       string               `bson:"username"`
	Email          string               `bson:"email"`
	Password       string               `bson:"password,omitempty"`
	Headline       string               `bson:"headline"`
	About          string               `bson:"about"`
	Location       string               `bson:"location"`
	ProfilePicture string               `bson:"profilePicture"`
	BannerImg      string               `bson:"bannerImg"`
	Skills         []string             `bson:"skills"`
	Experience     []user.Experience    `bson:"experience"`
	Education      []user.Education     `bson:"education"`
	Connections    []primitive.ObjectID `bson:"connections"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

var (
	withoutPassword = bson.M{"password": 0}
	summaryFields   = bson.M{"name": 1, "username": 1, "profilePicture": 1, "headline": 1}
)

type UserRepository struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection), now: time.Now}
}

// EnsureIndexes creates the unique indexes the profile lookups rely on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("mongo: ensure indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) FindConnections(ctx context.Context, id string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, user.ErrNotFound
	}

	var doc struct {
		Connections []primitive.ObjectID `bson:"connections"`
	}
	opts := options.FindOne().SetProjection(bson.M{"connections": 1})
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return hexIDs(doc.Connections), nil
}

func (r *UserRepository) FindSuggestions(ctx context.Context, excludeID string, connections []string, limit int) ([]user.Summary, error) {
	exclude := make([]primitive.ObjectID, 0, len(connections)+1)
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		exclude = append(exclude, oid)
	}
	for _, c := range connections {
		if oid, err := primitive.ObjectIDFromHex(c); err == nil {
			exclude = append(exclude, oid)
		}
	}

	opts := options.Find().SetProjection(summaryFields)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]user.Summary, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toProfile(doc).Summary())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.Profile{}, user.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (user.Profile, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (user.Profile, error) {
	var doc userDocument
	opts := options.FindOne().SetProjection(withoutPassword)
	if err := r.users.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return user.Profile{}, mapErr(err)
	}
	return toProfile(doc), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch user.ProfilePatch) (user.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.Profile{}, user.ErrNotFound
	}

	set := setDocument(patch)
	set["updatedAt"] = r.now().UTC()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return user.Profile{}, mapErr(err)
	}
	return toProfile(doc), nil
}

func (r *UserRepository) Create(ctx context.Context, p user.Profile, passwordHash string) (user.Profile, error) {
	now := r.now().UTC()
	doc := userDocument{
		ID:             primitive.NewObjectID(),
		Name:           p.Name,
		Username:       p.Username,
		Email:          p.Email,
		Password:       passwordHash,
		Headline:       p.Headline,
		About:          p.About,
		Location:       p.Location,
		ProfilePicture: p.ProfilePicture,
		BannerImg:      p.BannerImg,
		Skills:         nonNil(p.Skills),
		Experience:     nonNil(p.Experience),
		Education:      nonNil(p.Education),
		Connections:    objectIDs(p.Connections),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return user.Profile{}, fmt.Errorf("mongo: invalid id %q: %w", p.ID, err)
		}
		doc.ID = oid
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.Profile{}, user.ErrAlreadyExists
		}
		return user.Profile{}, err
	}
	doc.Password = ""
	return toProfile(doc), nil
}

// AddConnection links a and b in both directions.
func (r *UserRepository) AddConnection(ctx context.Context, a, b string) error {
	aid, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return user.ErrNotFound
	}
	bid, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return user.ErrNotFound
	}
	if aid == bid {
		return nil
	}
	if _, err := r.users.UpdateByID(ctx, aid, bson.M{"$addToSet": bson.M{"connections": bid}}); err != nil {
		return err
	}
	_, err = r.users.UpdateByID(ctx, bid, bson.M{"$addToSet": bson.M{"connections": aid}})
	return err
}

func setDocument(p user.ProfilePatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set[user.FieldName] = *p.Name
	}
	if p.Username != nil {
		set[user.FieldUsername] = *p.Username
	}
	if p.Headline != nil {
		set[user.FieldHeadline] = *p.Headline
	}
	if p.About != nil {
		set[user.FieldAbout] = *p.About
	}
	if p.Location != nil {
		set[user.FieldLocation] = *p.Location
	}
	if p.ProfilePicture != nil {
		set[user.FieldProfilePicture] = *p.ProfilePicture
	}
	if p.BannerImg != nil {
		set[user.FieldBannerImg] = *p.BannerImg
	}
	if p.Skills != nil {
		set[user.FieldSkills] = nonNil(*p.Skills)
	}
	if p.Experience != nil {
		set[user.FieldExperience] = nonNil(*p.Experience)
	}
	if p.Education != nil {
		set[user.FieldEducation] = nonNil(*p.Education)
	}
	return set
}

func toProfile(d userDocument) user.Profile {
	return user.Profile{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Username:       d.Username,
		Email:          d.Email,
		Headline:       d.Headline,
		About:          d.About,
		Location:       d.Location,
		ProfilePicture: d.ProfilePicture,
		BannerImg:      d.BannerImg,
		Skills:         d.Skills,
		Experience:     d.Experience,
		Education:      d.Education,
		Connections:    hexIDs(d.Connections),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.ErrNotFound
	}
	return err
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
