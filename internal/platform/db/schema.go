package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs statements that return no rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the terceros table when missing. Safe to call on every
// start.
func EnsureSchema(ctx context.Context, e Execer) error {
	if _, err := e.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("platform/db: ensure schema: %w", err)
	}
	return nil
}

// Schema is the DDL for the records table. Column order is part of the
// contract: positional readers rely on it.
const Schema = `
CREATE TABLE IF NOT EXISTS terceros (
	terc_id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	terc_tipo_doc  VARCHAR(10)  NOT NULL,
	terc_nro_doc   VARCHAR(30)  NOT NULL,
	terc_nombres   VARCHAR(100) NOT NULL,
	terc_apellidos VARCHAR(100) NOT NULL,
	terc_fecha_nac DATE,
	terc_tel       VARCHAR(30),
	terc_correo    VARCHAR(100),
	terc_direc     VARCHAR(200),
	terc_tipo      VARCHAR(30),
	terc_estado    VARCHAR(20)
);
`
