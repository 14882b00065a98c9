package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "REELHOUSE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv = "REELHOUSE_APP_ENV"
	EnvPort   = "REELHOUSE_APP_PORT"

	EnvDBDSN  = "REELHOUSE_DB_DSN"
	EnvDBHost = "REELHOUSE_DB_HOST"
	EnvDBUser = "REELHOUSE_DB_USER"
	EnvDBName = "REELHOUSE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
