package config

const (
	// EnvPrefix is passed to envconfig; individual tags carry the full name.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PEDIDOZ_APP_ENV"
	EnvDBDSN  = "PEDIDOZ_DB_DSN"
	EnvDBHost = "PEDIDOZ_DB_HOST"
	EnvDBUser = "PEDIDOZ_DB_USER"
	EnvDBName = "PEDIDOZ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
