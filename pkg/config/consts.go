package config

const (
	// EnvPrefix scopes every configuration variable.
	EnvPrefix = "PAKHSHYAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PAKHSHYAR_DB_DSN"
	EnvDBHost = "PAKHSHYAR_DB_HOST"
	EnvDBUser = "PAKHSHYAR_DB_USER"
	EnvDBName = "PAKHSHYAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
