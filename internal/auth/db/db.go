package db

import (
	"context"
	"strings"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const userNotFound = "user not found"

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := d.Bun.NewInsert().Model(user).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.Conflict, "email or username already registered", err)
	}
	return database.Translate(err, userNotFound)
}

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, userNotFound)
	}
	return &user, nil
}

// GetActiveUserByIdentifier matches identifier against username or email.
func (d *DB) GetActiveUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.username = ?", identifier).
				WhereOr("LOWER(?TableAlias.email) = ?", strings.ToLower(identifier))
		}).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, userNotFound)
	}
	return &user, nil
}

func (d *DB) UserExists(ctx context.Context, username, email string) (bool, error) {
	exists, err := d.Bun.NewSelect().
		Model((*models.User)(nil)).
		Where("?TableAlias.username = ?", username).
		WhereOr("LOWER(?TableAlias.email) = ?", strings.ToLower(email)).
		Exists(ctx)
	if err != nil {
		return false, database.Translate(err, userNotFound)
	}
	return exists, nil
}

// ActivateUser flips the user owning code to active and clears the code so it
// cannot be redeemed twice.
func (d *DB) ActivateUser(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("?TableAlias.activation_code = ?", code).
		Where("?TableAlias.is_active = ?", false).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, userNotFound)
	}

	res, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", true).
		Set("activation_code = NULL").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", user.ID).
		Where("is_active = ?", false).
		Exec(ctx)
	if err != nil {
		return nil, database.Translate(err, userNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperror.NewNotFound(userNotFound)
	}

	user.IsActive = true
	user.ActivationCode = ""
	return &user, nil
}

// SetRefreshToken stores token as the user's single live session; "" clears it.
func (d *DB) SetRefreshToken(ctx context.Context, userID, token string) error {
	q := d.Bun.NewUpdate().Model((*models.User)(nil))
	if token == "" {
		q = q.Set("refresh_token = NULL")
	} else {
		q = q.Set("refresh_token = ?", token)
	}
	_, err := q.Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	return database.Translate(err, userNotFound)
}

func (d *DB) UpdatePassword(ctx context.Context, userID, hash string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("password = ?", hash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	return database.Translate(err, userNotFound)
}

func (d *DB) UpdateProfile(ctx context.Context, userID, fullName, profilePicture string) (*models.User, error) {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("full_name = ?", fullName).
		Set("profile_picture = ?", profilePicture).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, database.Translate(err, userNotFound)
	}
	return d.GetUserByID(ctx, userID)
}
