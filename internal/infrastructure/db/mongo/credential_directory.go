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
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

const operatorsCollection = "operators"

// CredentialDirectory serves local logins from the operators collection.
type CredentialDirectory struct {
	coll *mongo.Collection
}

var _ ports.CredentialDirectory = (*CredentialDirectory)(nil)

func NewCredentialDirectory(db *mongo.Database) *CredentialDirectory {
	return &CredentialDirectory{coll: db.Collection(operatorsCollection)}
}

type operatorDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Role         string             `bson:"role"`
	Permissions  []string           `bson:"permissions"`
	AvatarRef    *string            `bson:"avatar_ref,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
}

// FindByUsername returns the operator's identity and password hash.
func (d *CredentialDirectory) FindByUsername(ctx context.Context, username string) (*ports.Credential, error) {
	var doc operatorDoc
	if err := d.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return &ports.Credential{Identity: doc.identity(), PasswordHash: doc.PasswordHash}, nil
}

// Upsert stores identity with a bcrypt hash of password, keyed by username.
func (d *CredentialDirectory) Upsert(ctx context.Context, identity domain.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	created := identity.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	update := bson.M{
		"$set": bson.M{
			"email":         identity.Email,
			"first_name":    identity.FirstName,
			"last_name":     identity.LastName,
			"role":          string(identity.Role),
			"permissions":   identity.Permissions,
			"avatar_ref":    identity.AvatarRef,
			"password_hash": string(hash),
		},
		"$setOnInsert": bson.M{"created_at": created.Unix()},
	}
	_, err = d.coll.UpdateOne(ctx, bson.M{"username": identity.Username}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert operator: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (d *CredentialDirectory) EnsureIndexes(ctx context.Context) error {
	_, err := d.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create operators indexes: %w", err)
	}
	return nil
}

func (doc operatorDoc) identity() domain.Identity {
	perms := doc.Permissions
	if perms == nil {
		perms = []string{}
	}
	return domain.Identity{
		ID:          domain.ID(doc.ID.Hex()),
		Username:    doc.Username,
		Email:       doc.Email,
		FirstName:   doc.FirstName,
		LastName:    doc.LastName,
		Role:        domain.IdentityRole(doc.Role),
		Permissions: perms,
		AvatarRef:   doc.AvatarRef,
		CreatedAt:   unixToTime(doc.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
