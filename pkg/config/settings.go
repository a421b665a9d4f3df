package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const settingsEndpointKey = "endpoint"

// ClientSettings preferencias locales del cliente. Hoy solo la URL del record store remoto.
type ClientSettings struct {
	Endpoint string
}

// DefaultSettingsPath devuelve ~/.tailorflow/settings.yaml (o ./.tailorflow si no hay HOME).
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".tailorflow", "settings.yaml")
}

// LoadClientSettings lee el archivo de preferencias. Si no existe devuelve settings vacíos (modo fallback).
func LoadClientSettings(path string) (ClientSettings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ClientSettings{}, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ClientSettings{}, fmt.Errorf("leer preferencias %s: %w", path, err)
	}
	return ClientSettings{Endpoint: strings.TrimSpace(v.GetString(settingsEndpointKey))}, nil
}

// SaveEndpoint persiste la URL del record store. Un endpoint vacío vuelve al modo fallback.
func SaveEndpoint(path, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoint inválido: %q", endpoint)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("crear directorio de preferencias: %w", err)
	}
	v := viper.New()
	v.Set(settingsEndpointKey, endpoint)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("guardar preferencias %s: %w", path, err)
	}
	return nil
}

// ResolveEndpoint aplica la precedencia: variable STORE_ENDPOINT, luego archivo de preferencias.
func ResolveEndpoint(cfg ClientConfig) (string, error) {
	if cfg.Endpoint != "" {
		return cfg.Endpoint, nil
	}
	s, err := LoadClientSettings(cfg.SettingsPath)
	if err != nil {
		return "", err
	}
	return s.Endpoint, nil
}
