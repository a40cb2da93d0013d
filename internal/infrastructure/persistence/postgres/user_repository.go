package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"linkup/internal/database"
	dbpostgres "linkup/internal/database/postgres"
	"linkup/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const profileColumns = `id, name, username, email, headline, about, location, profile_picture, banner_img,
	skills, experience, education, connections, created_at, updated_at`

const uniqueViolation = "23505"

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindConnections(ctx context.Context, id string) ([]string, error) {
	var connections []string
	err := r.db.QueryRow(ctx, `SELECT connections FROM users WHERE id = $1`, id).Scan(&connections)
	if err != nil {
		return nil, mapErr(err)
	}
	return connections, nil
}

func (r *UserRepository) FindSuggestions(ctx context.Context, excludeID string, connections []string, limit int) ([]user.Summary, error) {
	if connections == nil {
		connections = []string{}
	}
	if limit <= 0 {
		limit = 3
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, username, profile_picture, headline
		 FROM users
		 WHERE id <> $1 AND NOT (id = ANY($2::text[]))
		 LIMIT $3`,
		excludeID, connections, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Summary, 0, limit)
	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Username, &s.ProfilePicture, &s.Headline); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (user.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE username = $1`, username)
	return scanProfile(row)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch user.ProfilePatch) (user.Profile, error) {
	sets, args, err := setClause(patch)
	if err != nil {
		return user.Profile{}, err
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	q := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + profileColumns

	return scanProfile(r.db.QueryRow(ctx, q, args...))
}

func (r *UserRepository) Create(ctx context.Context, p user.Profile, passwordHash string) (user.Profile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	exp, err := json.Marshal(nonNil(p.Experience))
	if err != nil {
		return user.Profile{}, err
	}
	edu, err := json.Marshal(nonNil(p.Education))
	if err != nil {
		return user.Profile{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, username, email, password, headline, about, location,
			profile_picture, banner_img, skills, experience, education, connections)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+profileColumns,
		p.ID, p.Name, p.Username, p.Email, passwordHash, p.Headline, p.About, p.Location,
		p.ProfilePicture, p.BannerImg, nonNil(p.Skills), exp, edu, nonNil(p.Connections),
	)
	created, err := scanProfile(row)
	if isUniqueViolation(err) {
		return user.Profile{}, user.ErrAlreadyExists
	}
	return created, err
}

// AddConnection links a and b in both directions.
func (r *UserRepository) AddConnection(ctx context.Context, a, b string) error {
	if a == b {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE users
		 SET connections = array_append(connections, CASE WHEN id = $1 THEN $2 ELSE $1 END)
		 WHERE (id = $1 AND NOT ($2 = ANY(connections)))
		    OR (id = $2 AND NOT ($1 = ANY(connections)))`,
		a, b,
	)
	return err
}

func setClause(p user.ProfilePatch) ([]string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Username != nil {
		add("username", *p.Username)
	}
	if p.Headline != nil {
		add("headline", *p.Headline)
	}
	if p.About != nil {
		add("about", *p.About)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.ProfilePicture != nil {
		add("profile_picture", *p.ProfilePicture)
	}
	if p.BannerImg != nil {
		add("banner_img", *p.BannerImg)
	}
	if p.Skills != nil {
		add("skills", nonNil(*p.Skills))
	}
	if p.Experience != nil {
		b, err := json.Marshal(nonNil(*p.Experience))
		if err != nil {
			return nil, nil, fmt.Errorf("encode experience: %w", err)
		}
		add("experience", b)
	}
	if p.Education != nil {
		b, err := json.Marshal(nonNil(*p.Education))
		if err != nil {
			return nil, nil, fmt.Errorf("encode education: %w", err)
		}
		add("education", b)
	}
	return sets, args, nil
}

func scanProfile(row database.Row) (user.Profile, error) {
	var (
		p        user.Profile
		exp, edu []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Username, &p.Email, &p.Headline, &p.About, &p.Location,
		&p.ProfilePicture, &p.BannerImg, &p.Skills, &exp, &edu, &p.Connections,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return user.Profile{}, mapErr(err)
	}
	if err := json.Unmarshal(exp, &p.Experience); err != nil {
		return user.Profile{}, fmt.Errorf("decode experience: %w", err)
	}
	if err := json.Unmarshal(edu, &p.Education); err != nil {
		return user.Profile{}, fmt.Errorf("decode education: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func mapErr(err error) error {
	if dbpostgres.IsNoRows(err) {
		return user.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

