package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Upper bound for one contact mail delivery
const MailSendTimeout = 15 * time.Second

// Upload limits
const (
	MaxUploadBytes      = 5 << 20
	MaxUploadBodyBytes  = MaxUploadBytes + 1<<20
	MultipartFormMemory = 1 << 20
)

// Background jobs
const (
	CleanupJobInterval = 5 * time.Minute
	CleanupJobTimeout  = 30 * time.Second
)

// Upper bound for admin provisioning and demo seeding
const ProvisionTimeout = 30 * time.Second
