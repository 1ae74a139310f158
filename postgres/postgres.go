// Package postgres installs SQL functions that render and parse flowcode
// codes inside PostgreSQL, mirroring a flowcode.Formatter.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/paraglidehq/flowcode"
	"github.com/paraglidehq/flowcode/alphabet"
)

// Config holds the formatter configuration mirrored in the database.
type Config struct {
	Radix    int
	Alphabet string
}

// DefaultConfig matches flowcode.DefaultFormatter.
func DefaultConfig() Config {
	return Config{
		Radix:    flowcode.MaxDecimalRadix,
		Alphabet: alphabet.HumanReadable.String(),
	}
}

// Formatter returns the Go formatter the installed functions agree with.
func (c Config) Formatter() (*flowcode.Formatter, error) {
	return flowcode.NewCustom(c.Radix, c.Alphabet)
}

var ErrConfigMismatch = errors.New("flowcode: database config does not match application config")

// Migrate runs the idempotent flowcode migration with the given configuration.
// If the database already has a different configuration, returns ErrConfigMismatch.
func Migrate(ctx context.Context, db *sql.DB, cfg Config) error {
	if _, err := cfg.Formatter(); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _flowcode_config (
			id int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			radix int NOT NULL,
			alphabet text NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("flowcode: create config table: %w", err)
	}

	stored, err := GetConfig(ctx, db)
	if err == nil {
		if stored != cfg {
			return fmt.Errorf("%w: db has radix=%d alphabet=%q, app has radix=%d alphabet=%q",
				ErrConfigMismatch, stored.Radix, stored.Alphabet, cfg.Radix, cfg.Alphabet)
		}
	} else if errors.Is(err, sql.ErrNoRows) {
		_, err = db.ExecContext(ctx, `INSERT INTO _flowcode_config (radix, alphabet) VALUES ($1, $2)`,
			cfg.Radix, cfg.Alphabet)
		if err != nil {
			return fmt.Errorf("flowcode: insert config: %w", err)
		}
	} else {
		return fmt.Errorf("flowcode: read config: %w", err)
	}

	if _, err = db.ExecContext(ctx, generateSQL(cfg)); err != nil {
		return fmt.Errorf("flowcode: run migrations: %w", err)
	}
	return nil
}

// GetConfig reads the flowcode configuration from the database.
func GetConfig(ctx context.Context, db *sql.DB) (Config, error) {
	var cfg Config
	err := db.QueryRowContext(ctx, `SELECT radix, alphabet FROM _flowcode_config`).Scan(&cfg.Radix, &cfg.Alphabet)
	return cfg, err
}

// MaxIndex calls flowcode_max_index.
func MaxIndex(ctx context.Context, db *sql.DB, length int) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, `SELECT flowcode_max_index($1)`, length).Scan(&n)
	return n, err
}

// Format calls flowcode_format.
func Format(ctx context.Context, db *sql.DB, value int64, length int) (string, error) {
	var code string
	err := db.QueryRowContext(ctx, `SELECT flowcode_format($1, $2)`, value, length).Scan(&code)
	return code, err
}

// Parse calls flowcode_parse.
func Parse(ctx context.Context, db *sql.DB, code string, length int) (int64, error) {
	var v int64
	err := db.QueryRowContext(ctx, `SELECT flowcode_parse($1, $2)`, code, length).Scan(&v)
	return v, err
}

func generateSQL(cfg Config) string {
	symbols := pq.QuoteLiteral(cfg.Alphabet)
	size := len(cfg.Alphabet)

	return fmt.Sprintf(`
-- Zero-padded radix rendering
CREATE OR REPLACE FUNCTION flowcode_render(v bigint, width int)
  RETURNS text
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
DECLARE
  digits constant text := '0123456789abcdefghijklmnopqrstuvwxyz';
  radix constant int := %[1]d;
  result text := '';
BEGIN
  IF radix = 1 THEN
    IF v <> 0 THEN
      RETURN '';
    END IF;
    result := '0';
  ELSE
    LOOP
      result := substr(digits, mod(v, radix)::int + 1, 1) || result;
      v := v / radix;
      EXIT WHEN v = 0;
    END LOOP;
  END IF;
  IF length(result) < width THEN
    result := repeat('0', width - length(result)) || result;
  END IF;
  RETURN result;
END;
$$;

CREATE OR REPLACE FUNCTION flowcode_max_index(width int)
  RETURNS bigint
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT LEAKPROOF
  AS $$
DECLARE
  radix constant numeric := %[1]d;
  size constant numeric := %[3]d;
  result numeric;
BEGIN
  IF width < 1 THEN
    RETURN 0;
  END IF;
  result := radix ^ width - 1;
  FOR tier IN 0..width - 1 LOOP
    result := result + size * radix ^ (width - 1 - tier);
  END LOOP;
  RETURN least(result, 9223372036854775807)::bigint;
END;
$$;

CREATE OR REPLACE FUNCTION flowcode_format(v bigint, width int)
  RETURNS text
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT
  AS $$
DECLARE
  radix constant numeric := %[1]d;
  symbols constant text := %[2]s;
  size constant numeric := %[3]d;
  top numeric;
  seg numeric;
  span numeric;
  idx int;
  result text;
BEGIN
  IF width < 1 THEN
    RAISE EXCEPTION 'flowcode: length must be at least 1';
  END IF;
  IF v < 0 THEN
    RAISE EXCEPTION 'flowcode: value must not be negative';
  END IF;
  IF v < radix ^ width THEN
    RETURN flowcode_render(v, width);
  END IF;
  top := radix ^ width - 1;
  FOR tier IN 0..width - 1 LOOP
    seg := radix ^ (width - 1 - tier);
    span := size * seg;
    IF v - top <= span THEN
      idx := div(v - top - 1, seg)::int;
      result := repeat(right(symbols, 1), tier) || substr(symbols, idx + 1, 1);
      IF seg > 1 THEN
        result := result || flowcode_render(mod(v, seg)::bigint, width - 1 - tier);
      END IF;
      RETURN result;
    END IF;
    top := top + span;
  END LOOP;
  RAISE EXCEPTION 'flowcode: value too large for length';
END;
$$;

CREATE OR REPLACE FUNCTION flowcode_parse(code text, width int)
  RETURNS bigint
  LANGUAGE plpgsql
  IMMUTABLE PARALLEL SAFE STRICT
  AS $$
DECLARE
  digits constant text := '0123456789abcdefghijklmnopqrstuvwxyz';
  radix constant numeric := %[1]d;
  symbols constant text := %[2]s;
  size constant numeric := %[3]d;
  n int := 0;
  tier int;
  d int;
  top numeric := 0;
  seg numeric := 1;
  rem numeric := 0;
BEGIN
  IF width < 1 THEN
    RAISE EXCEPTION 'flowcode: length must be at least 1';
  END IF;
  WHILE n < length(code) AND position(substr(code, n + 1, 1) IN symbols) > 0 LOOP
    n := n + 1;
  END LOOP;
  IF n > width THEN
    RAISE EXCEPTION 'flowcode: invalid code: %%', code;
  END IF;
  FOR i IN n + 1..length(code) LOOP
    d := position(substr(code, i, 1) IN digits) - 1;
    IF d < 0 OR d >= greatest(radix, 1) THEN
      RAISE EXCEPTION 'flowcode: invalid code: %%', code;
    END IF;
    rem := rem * radix + d;
  END LOOP;
  IF n > 0 THEN
    tier := n - 1;
    top := radix ^ width - 1;
    FOR k IN 0..tier - 1 LOOP
      top := top + size * radix ^ (width - 1 - k);
    END LOOP;
    seg := radix ^ (width - 1 - tier);
    rem := top + 1 + (position(substr(code, n, 1) IN symbols) - 1) * seg + rem;
  END IF;
  IF rem > 9223372036854775807 OR flowcode_format(rem::bigint, width) <> code THEN
    RAISE EXCEPTION 'flowcode: invalid code: %%', code;
  END IF;
  RETURN rem::bigint;
END;
$$;
`,
		cfg.Radix, // radix in every function
		symbols,   // quoted alphabet
		size,      // alphabet size
	)
}
