package repository

// Claves de parámetros de configuración de negocio (tabla config_params).
const (
	ParamPRCreationLimit = "purchase_request.pr_creation_limit" // cupo semanal por solicitante; 0 = ilimitado
	ParamB2BEvalMode     = "b2b.eval_mode"                      // mtd | ytd | last_x_days
	ParamB2BLastXDays    = "b2b.last_x_days"
	ParamB2BThresholdPct = "b2b.threshold_pct" // % de avance al que se notifica
)

// SettingsRepository define el puerto para parámetros de configuración en
// runtime: enteros y strings con default.
type SettingsRepository interface {
	GetInt(key string, def int) (int, error)
	GetString(key string, def string) (string, error)
	Set(key, value string) error
}
