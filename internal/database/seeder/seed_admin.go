package seeder

import (
	"context"
	"strings"

	"jobhub/internal/database"
	"jobhub/internal/domain/user"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder creates the bootstrap admin account. Admins cannot register
// through the API, so this is the only way one comes into existence.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" || s.Password == "" {
		return nil
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO users (id, email, password_hash, role) VALUES (gen_random_uuid(), $1, $2, $3) ON CONFLICT (email) DO NOTHING`,
		email,
		string(hash),
		string(user.RoleAdmin),
	)
	return err
}
