package terceros

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bd2-crud/terceros/internal/platform/db"
)

// Repository persists ThirdParty records.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]ThirdParty, error)
	Get(ctx context.Context, id int64) (*ThirdParty, error)
	Create(ctx context.Context, t ThirdParty) (int64, error)
	Update(ctx context.Context, id int64, t ThirdParty) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

const selectColumns = `terc_id, terc_tipo_doc, terc_nro_doc, terc_nombres, terc_apellidos,
       terc_fecha_nac, terc_tel, terc_correo, terc_direc, terc_tipo, terc_estado`

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: nil})
	})
}

func (r *repository) List(ctx context.Context) ([]ThirdParty, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM terceros ORDER BY terc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ThirdParty{}
	for rows.Next() {
		t, err := scanThirdParty(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*ThirdParty, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM terceros WHERE terc_id = $1`, id)
	t, err := scanThirdParty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t ThirdParty) (int64, error) {
	const query = `
		INSERT INTO terceros (
			terc_tipo_doc, terc_nro_doc, terc_nombres, terc_apellidos, terc_fecha_nac,
			terc_tel, terc_correo, terc_direc, terc_tipo, terc_estado
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING terc_id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		t.DocumentType, t.DocumentNumber, t.GivenNames, t.Surnames, dateParam(t.BirthDate),
		t.Phone, t.Email, t.Address, t.PartyType, t.Status,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, t ThirdParty) (int64, error) {
	const query = `
		UPDATE terceros SET
			terc_tipo_doc = $1,
			terc_nro_doc = $2,
			terc_nombres = $3,
			terc_apellidos = $4,
			terc_fecha_nac = $5,
			terc_tel = $6,
			terc_correo = $7,
			terc_direc = $8,
			terc_tipo = $9,
			terc_estado = $10
		WHERE terc_id = $11`
	tag, err := r.db.Exec(ctx, query,
		t.DocumentType, t.DocumentNumber, t.GivenNames, t.Surnames, dateParam(t.BirthDate),
		t.Phone, t.Email, t.Address, t.PartyType, t.Status, id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM terceros WHERE terc_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanThirdParty(row pgx.Row) (ThirdParty, error) {
	var t ThirdParty
	var docType, docNumber, names, surnames, phone, email, address, partyType, status pgtype.Text
	var birth pgtype.Date
	err := row.Scan(
		&t.ID, &docType, &docNumber, &names, &surnames,
		&birth, &phone, &email, &address, &partyType, &status,
	)
	if err != nil {
		return ThirdParty{}, err
	}
	t.DocumentType = docType.String
	t.DocumentNumber = docNumber.String
	t.GivenNames = names.String
	t.Surnames = surnames.String
	t.Phone = phone.String
	t.Email = email.String
	t.Address = address.String
	t.PartyType = partyType.String
	t.Status = status.String
	if birth.Valid {
		d := birth.Time
		t.BirthDate = &d
	}
	return t, nil
}

func dateParam(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
