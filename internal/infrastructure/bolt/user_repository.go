package bolt

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/skillswap/skillswap/internal/domain/user"
)

// UserRepository implements user.Repository.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// userRecord keeps the password hash that user.User hides from JSON.
type userRecord struct {
	user.User
	Hash string `json:"passwordHash"`
}

func getUser(b *bbolt.Bucket, key []byte) (*user.User, error) {
	var rec userRecord
	ok, err := getJSON(b, key, &rec)
	if !ok || err != nil {
		return nil, err
	}
	u := rec.User
	u.PasswordHash = rec.Hash
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		names := tx.Bucket(bucketUsernames)
		if names.Get([]byte(u.Username)) != nil {
			return user.ErrUsernameTaken
		}
		if err := names.Put([]byte(u.Username), idKey(u.UserID)); err != nil {
			return err
		}
		return putJSON(tx.Bucket(bucketUsers), idKey(u.UserID), userRecord{User: *u, Hash: u.PasswordHash})
	})
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	var out *user.User
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		u, err := getUser(tx.Bucket(bucketUsers), idKey(userID))
		out = u
		return err
	})
	return out, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var out *user.User
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsernames).Get([]byte(username))
		if id == nil {
			return nil
		}
		u, err := getUser(tx.Bucket(bucketUsers), id)
		out = u
		return err
	})
	return out, err
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*user.User, error) {
	var out []*user.User
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		for _, id := range userIDs {
			u, err := getUser(b, idKey(id))
			if err != nil {
				return err
			}
			if u != nil {
				out = append(out, u)
			}
		}
		return nil
	})
	return out, err
}

// SkillRepository implements user.SkillRepository.
type SkillRepository struct {
	store *Store
}

func NewSkillRepository(store *Store) *SkillRepository {
	return &SkillRepository{store: store}
}

func (r *SkillRepository) Create(ctx context.Context, sk *user.Skill) error {
	return r.store.update(ctx, func(tx *bbolt.Tx) error {
		if err := putJSON(tx.Bucket(bucketSkills), idKey(sk.SkillID), sk); err != nil {
			return err
		}
		return addIndex(tx, bucketSkillsByOwner, sk.OwnerID.String(), sk.SkillID)
	})
}

func (r *SkillRepository) GetByID(ctx context.Context, skillID uuid.UUID) (*user.Skill, error) {
	var out *user.Skill
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		var sk user.Skill
		ok, err := getJSON(tx.Bucket(bucketSkills), idKey(skillID), &sk)
		if ok {
			out = &sk
		}
		return err
	})
	return out, err
}

func (r *SkillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*user.Skill, error) {
	var out []*user.Skill
	err := r.store.view(ctx, func(tx *bbolt.Tx) error {
		list, err := loadIndexed[user.Skill](tx, bucketSkillsByOwner, bucketSkills, ownerID.String())
		out = list
		return err
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}
