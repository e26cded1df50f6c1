package constants

// Clés viper.
const (
	ViperBindAddr     = "bind_addr"
	ViperPostgresDSN  = "postgres_dsn"
	ViperSecretKey    = "secret_key"
	ViperGeoSourceURL = "geo_source_url"
)

const (
	CookieKeySecretToken = "secret_token"

	CtxKeyRequestID = "request_id"
)
