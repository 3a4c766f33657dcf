package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo parámetros de configuración de negocio sobre la tabla
// config_params (clave/valor global).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetString devuelve el valor del parámetro, o def si no existe.
func (r *SettingsRepo) GetString(key string, def string) (string, error) {
	var value string
	err := r.q.QueryRow(context.Background(),
		`SELECT value FROM config_params WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return def, nil
		}
		return def, fmt.Errorf("get config param %s: %w", key, err)
	}
	return value, nil
}

// GetInt devuelve el valor entero del parámetro; def si no existe o no es numérico.
func (r *SettingsRepo) GetInt(key string, def int) (int, error) {
	raw, err := r.GetString(key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, nil
	}
	return n, nil
}

// Set crea o actualiza un parámetro.
func (r *SettingsRepo) Set(key, value string) error {
	query := `
		INSERT INTO config_params (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(context.Background(), query, key, value); err != nil {
		return fmt.Errorf("set config param %s: %w", key, err)
	}
	return nil
}
