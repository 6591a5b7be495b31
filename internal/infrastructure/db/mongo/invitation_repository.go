package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/task-manager/internal/core/domain"
)

const invitationsCollection = "invitations"

type InvitationRepository struct {
	col *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{col: db.Collection(invitationsCollection)}
}

func (r *InvitationRepository) FindByID(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *InvitationRepository) FindByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *InvitationRepository) FindUnusedByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	return r.findOne(ctx, bson.M{"token": token, "is_used": false})
}

func (r *InvitationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var inv domain.Invitation
	if err := r.col.FindOne(ctx, filter).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return &inv, nil
}

// Insert stores a new invitation. The unique email index rejects a second
// row for the same address.
func (r *InvitationRepository) Insert(ctx context.Context, inv *domain.Invitation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, inv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrActiveInvitationExists
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// Save rewrites the reissuable fields of an existing invitation.
func (r *InvitationRepository) Save(ctx context.Context, inv *domain.Invitation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{"$set": bson.M{
		"token":      inv.Token,
		"expires_at": inv.ExpiresAt,
		"is_used":    inv.IsUsed,
		"updated_at": inv.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("save invitation: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// MarkUsed flips the used flag of an unused invitation and reports whether
// this call consumed it. Of two concurrent calls only one matches.
func (r *InvitationRepository) MarkUsed(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, markUsedFilter(id), bson.M{"$set": bson.M{"is_used": true}})
	if err != nil {
		return false, fmt.Errorf("mark invitation used: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func markUsedFilter(id string) bson.M {
	return bson.M{"_id": id, "is_used": false}
}

func (r *InvitationRepository) List(ctx context.Context, invitedByID string) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if invitedByID != "" {
		filter["invited_by_id"] = invitedByID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer cur.Close(ctx)

	invitations := make([]*domain.Invitation, 0)
	if err := cur.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("decode invitations: %w", err)
	}
	return invitations, nil
}

// EnsureIndexes creates the unique email and token indexes plus the issuer
// lookup index.
func (r *InvitationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "invited_by_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
