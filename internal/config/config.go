package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
	"github.com/xhit/go-str2duration/v2"
)

const envPrefix = "TIMETABLE_"

type Application struct {
	Listen   string   `koanf:"listen"`
	Timezone string   `koanf:"timezone"`
	Frontend Frontend `koanf:"frontend"`
	Snapshot Snapshot `koanf:"snapshot"`
	// Hours are the hour labels drawn on the left of the week grid.
	Hours []string `koanf:"hours"`
	// Blacklist holds title substrings excluded from weekly totals.
	Blacklist   []string  `koanf:"blacklist"`
	MergeWindow string    `koanf:"mergewindow"`
	Cache       Cache     `koanf:"cache"`
	RateLimit   RateLimit `koanf:"ratelimit"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Snapshot struct {
	Path string `koanf:"path"`
	// Reload is a cron expression; empty disables scheduled reloads.
	Reload string `koanf:"reload"`
}

type Cache struct {
	Size int `koanf:"size"`
}

type RateLimit struct {
	PerMinute int `koanf:"perminute"`
	// TrustedProxies lists the proxy addresses or CIDR ranges whose X-Forwarded-For and
	// X-Real-IP headers name the client. Headers from any other peer are ignored.
	TrustedProxies []string `koanf:"trustedproxies"`
}

func defaults() Application {
	return Application{
		Listen:   ":8181",
		Timezone: "Europe/Paris",
		Frontend: Frontend{
			Enabled: false,
			Dir:     "frontend",
		},
		Snapshot: Snapshot{
			Path: "./data/apicalendar.json",
		},
		Hours: []string{
			"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
			"14:00", "15:00", "16:00", "17:00", "18:00", "19:00",
		},
		Blacklist:   []string{"Vacances", "Férié"},
		MergeWindow: "1h",
		Cache:       Cache{Size: 32},
		RateLimit:   RateLimit{PerMinute: 600},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			// Comma separated values for list settings.
			if k == "hours" || k == "blacklist" || k == "ratelimit.trustedproxies" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if _, err := app.Location(); err != nil {
		return Application{}, err
	}
	if _, err := app.MergeWindowDuration(); err != nil {
		return Application{}, err
	}
	if _, err := app.RateLimit.TrustedProxyNets(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured IANA timezone.
func (a Application) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// MergeWindowDuration parses MergeWindow ("1h", "45m", "1h30m"...).
func (a Application) MergeWindowDuration() (time.Duration, error) {
	if a.MergeWindow == "" {
		return time.Hour, nil
	}
	d, err := str2duration.ParseDuration(a.MergeWindow)
	if err != nil {
		return 0, fmt.Errorf("invalid merge window %q: %w", a.MergeWindow, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("merge window must be positive, got %s", a.MergeWindow)
	}
	return d, nil
}

// TrustedProxyNets parses TrustedProxies. A bare address is a single-host network.
func (r RateLimit) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(r.TrustedProxies))
	for _, entry := range r.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", entry)
		}
		bits := 8 * net.IPv6len
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 8*net.IPv4len
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, nil
}
