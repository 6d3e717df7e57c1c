package config

import (
	"strings"
	"text/template"
)

// newConfigFile returns the config file template contents for the given
// config.
func newConfigFile(cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var b strings.Builder
	t := template.Must(template.New("config").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(configFileTmpl))
	if err := t.Execute(&b, cfg); err != nil {
		return ""
	}
	return b.String()
}

const configFileTmpl = `# The name of the server.
# This is the name that will be displayed in the UI.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"

  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"

  # Path to the log file. Leave empty to write to stderr.
  #path: ""

# The HTTP server configuration.
http:
  # Whether or not the HTTP API is enabled.
  enabled: {{ .HTTP.Enabled }}

  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The path to the TLS private key.
  tls_key_path: "{{ .HTTP.TLSKeyPath }}"

  # The path to the TLS certificate.
  tls_cert_path: "{{ .HTTP.TLSCertPath }}"

  # The public URL of the HTTP server.
  # This is the address clients use to reach the API.
  public_url: "{{ .HTTP.PublicURL }}"

  # CORS configuration for browser clients.
  cors:
    # Whether or not CORS headers are sent.
    enabled: {{ .HTTP.CORS.Enabled }}

    # The list of origins allowed to call the API.
    allowed_origins: [{{ range $i, $o := .HTTP.CORS.AllowedOrigins }}{{ if $i }}, {{ end }}"{{ $o }}"{{ end }}]

    # The list of request headers allowed on CORS requests.
    allowed_headers: [{{ range $i, $h := .HTTP.CORS.AllowedHeaders }}{{ if $i }}, {{ end }}"{{ $h }}"{{ end }}]

    # The list of methods allowed on CORS requests.
    allowed_methods: [{{ range $i, $m := .HTTP.CORS.AllowedMethods }}{{ if $i }}, {{ end }}"{{ $m }}"{{ end }}]

# The stats server configuration.
stats:
  # Whether or not the stats server is enabled.
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

# Session token configuration.
jwt:
  # The path to the Ed25519 key pair used to sign session tokens.
  # The pair is created on first run if it does not exist.
  key_path: "{{ .JWT.KeyPath }}"

# Webhook configuration.
webhook:
  # The number of days webhook delivery records are kept.
  delivery_retention: {{ .Webhook.DeliveryRetention }}

# Roster synchronizer configuration.
roster:
  # The per-remote-call timeout in seconds.
  timeout: {{ .Roster.Timeout }}

# Cron jobs configuration.
jobs:
  # The schedule for pruning old webhook deliveries.
  prune_deliveries: "{{ .Jobs.PruneDeliveries }}"

  # The schedule for pruning expired access tokens.
  prune_tokens: "{{ .Jobs.PruneTokens }}"

# Initial admin user handles.
# These users will be created as admins on first run.
initial_admins: [{{ range $i, $a := .InitialAdmins }}{{ if $i }}, {{ end }}"{{ $a }}"{{ end }}]
`
