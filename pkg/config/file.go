package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# orgsvc configuration

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP server configuration.
http:
  # Enable the HTTP server.
  enabled: {{ .HTTP.Enabled }}

  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  # Tokens are issued with this URL as their issuer.
  public_url: "{{ .HTTP.PublicURL }}"

  # Cross-origin resource sharing.
  cors:
    allowed_headers: {{ range .HTTP.CORS.AllowedHeaders }}
      - "{{ . }}"{{ end }}
    allowed_origins: {{ range .HTTP.CORS.AllowedOrigins }}
      - "{{ . }}"{{ end }}
    allowed_methods: {{ range .HTTP.CORS.AllowedMethods }}
      - "{{ . }}"{{ end }}

# The stats server configuration.
stats:
  # Enable the stats server.
  enabled: {{ .Stats.Enabled }}

  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  data_source: "{{ .DB.DataSource }}"

# Credentials and token configuration.
auth:
  # Token signing method. Valid values are "hs256" and "eddsa".
  signing_method: "{{ .Auth.SigningMethod }}"

  # The HMAC secret used with "hs256". Prefer ORGSVC_AUTH_JWT_SECRET.
  #jwt_secret: ""

  # The Ed25519 private key used with "eddsa". Generated if missing.
  key_path: "{{ .Auth.KeyPath }}"

  # The number of seconds a token is valid for.
  token_ttl: {{ .Auth.TokenTTL }}

  # The bcrypt cost used to hash passwords.
  bcrypt_cost: {{ .Auth.BcryptCost }}

# Organisation membership configuration.
membership:
  # Who may add users to an organisation.
  # "members-only" requires the caller to be a member of the organisation.
  # "open" lets anyone add anyone. This is insecure.
  add_member_policy: "{{ .Membership.AddMemberPolicy }}"

  # The number of public user records kept in memory.
  user_cache_size: {{ .Membership.UserCacheSize }}
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
