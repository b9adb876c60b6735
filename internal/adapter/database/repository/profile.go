package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/pkg/db"
)

const (
	profileEntity = "profile"
	profileTable  = "profile"
)

type profileRow struct {
	ID       int    `db:"id"`
	Nickname string `db:"nickname"`
	ImageURI string `db:"image_uri"`
}

// ProfileRepository reads and writes the single seeded profile row.
type ProfileRepository struct {
	db        *db.DB
	scanner   *db.Scanner
	telemetry port.Telemetry
}

func NewProfileRepository(conn *db.DB, telemetry port.Telemetry) port.ProfileRepository {
	return &ProfileRepository{
		db:        conn,
		scanner:   db.NewScanner(),
		telemetry: withTelemetry(telemetry),
	}
}

func (pr *ProfileRepository) Get(ctx context.Context) (domain.Profile, error) {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "Get", profileEntity, profileTable, nil)

	query, args, err := pr.db.QueryBuilder.Select("id", "nickname", "image_uri").
		From(profileTable).
		Where(sq.Eq{"id": domain.ProfileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Profile{}, obs.fail(err)
	}

	obs.query(query, args)

	rows, err := pr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Profile{}, obs.fail(err)
	}
	defer rows.Close()

	var record profileRow
	if err := pr.scanner.ScanRow(rows, &record); err != nil {
		return domain.Profile{}, obs.fail(err)
	}

	obs.done(nil)

	return domain.Profile{
		ID:       record.ID,
		Nickname: record.Nickname,
		ImageURI: record.ImageURI,
	}, nil
}

func (pr *ProfileRepository) SaveNickname(ctx context.Context, nickname string) error {
	return pr.update(ctx, "SaveNickname", map[string]interface{}{"nickname": nickname})
}

func (pr *ProfileRepository) SaveImageURI(ctx context.Context, uri string) error {
	return pr.update(ctx, "SaveImageURI", map[string]interface{}{"image_uri": uri})
}

// Save writes the nickname and, when imageURI is not nil, the image in one statement.
func (pr *ProfileRepository) Save(ctx context.Context, nickname string, imageURI *string) error {
	values := map[string]interface{}{"nickname": nickname}
	if imageURI != nil {
		values["image_uri"] = *imageURI
	}

	return pr.update(ctx, "Save", values)
}

// update upserts the profile row so a missing seed row is recreated instead of failing.
func (pr *ProfileRepository) update(ctx context.Context, operation string, values map[string]interface{}) error {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, operation, profileEntity, profileTable, map[string]interface{}{
		"db.operation": "UPSERT",
	})

	columns := []string{"id"}
	args := []interface{}{domain.ProfileID}
	assignments := ""

	for _, column := range []string{"nickname", "image_uri"} {
		value, ok := values[column]
		if !ok {
			continue
		}
		columns = append(columns, column)
		args = append(args, value)
		if assignments != "" {
			assignments += ", "
		}
		assignments += column + " = excluded." + column
	}

	query, queryArgs, err := pr.db.QueryBuilder.Insert(profileTable).
		Columns(columns...).
		Values(args...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + assignments).
		ToSql()
	if err != nil {
		return obs.fail(err)
	}

	obs.query(query, queryArgs)

	if _, err := pr.db.ExecContext(ctx, query, queryArgs...); err != nil {
		return obs.fail(err)
	}

	obs.done(nil)

	return nil
}
