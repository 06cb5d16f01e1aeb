package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/savastore/whatsbot/pkg/config"
	"github.com/savastore/whatsbot/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Data       DataConfig            `koanf:"data"`
	Session    SessionConfig         `koanf:"session"`
	Database   config.DatabaseConfig `koanf:"database"`
	NATS       config.NATSConfig     `koanf:"nats"`
	Dialogue   DialogueConfig        `koanf:"dialogue"`
}

// DataConfig points at the catalog and FAQ data files loaded at startup.
type DataConfig struct {
	CatalogFile string `koanf:"catalogFile"`
	FaqFile     string `koanf:"faqFile"`
}

func (c *DataConfig) Validate() error {
	if c.CatalogFile == "" {
		return fmt.Errorf("catalog data file is not configured")
	}
	if c.FaqFile == "" {
		return fmt.Errorf("FAQ data file is not configured")
	}
	return nil
}

// SessionConfig bounds the in-memory session store. Zero values disable the
// corresponding bound.
type SessionConfig struct {
	TTL         time.Duration `koanf:"ttl"`
	MaxSessions int           `koanf:"maxSessions"`
}

func (c *SessionConfig) Validate() error {
	if c.TTL < 0 {
		return fmt.Errorf("session TTL must not be negative: %v", c.TTL)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("session cap must not be negative: %d", c.MaxSessions)
	}
	return nil
}

// DialogueConfig optionally overrides the built-in keyword classes. An empty
// list keeps the default set for that class.
type DialogueConfig struct {
	Keywords KeywordsConfig `koanf:"keywords"`
}

type KeywordsConfig struct {
	Price       []string `koanf:"price"`
	Stock       []string `koanf:"stock"`
	Faq         []string `koanf:"faq"`
	Buy         []string `koanf:"buy"`
	Agent       []string `koanf:"agent"`
	Affirmative []string `koanf:"affirmative"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Data Files ---\n")
	b.WriteString(fmt.Sprintf("  data.catalogFile: %s\n", c.Data.CatalogFile))
	b.WriteString(fmt.Sprintf("  data.faqFile: %s\n", c.Data.FaqFile))

	b.WriteString("\n--- Session Store ---\n")
	b.WriteString(fmt.Sprintf("  session.ttl: %s\n", c.Session.TTL))
	b.WriteString(fmt.Sprintf("  session.maxSessions: %d\n", c.Session.MaxSessions))
	b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))

	b.WriteString("\n--- Messaging ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.NATS.Enabled))

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.NATS.Validate(); err != nil {
		return err
	}
	return nil
}
