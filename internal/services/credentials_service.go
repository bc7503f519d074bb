package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"

	"h3dstudio/internal/config"
	"h3dstudio/internal/h3d"
)

const (
	serviceName = "h3dstudio"
	sessionKey  = "session"
)

// OpenKeyring opens the credential store selected by cfg. The file backend
// is encrypted with cfg.Password.
func OpenKeyring(cfg config.KeyringConfig) (keyring.Keyring, error) {
	kc := keyring.Config{
		ServiceName: serviceName,
		FileDir:     cfg.FileDir,
	}
	if cfg.Backend != "" {
		kc.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}
	if cfg.Password != "" {
		kc.FilePasswordFunc = keyring.FixedStringPrompt(cfg.Password)
	}
	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// CredentialsService keeps the Hunyuan 3D session cookies in the OS keyring.
type CredentialsService struct {
	ring keyring.Keyring
}

func NewCredentialsService(ring keyring.Keyring) *CredentialsService {
	return &CredentialsService{ring: ring}
}

func (s *CredentialsService) Store(token, userID string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	data, err := json.Marshal(h3d.Credentials{Token: token, UserID: strings.TrimSpace(userID)})
	if err != nil {
		return err
	}
	return s.ring.Set(keyring.Item{
		Key:         sessionKey,
		Data:        data,
		Label:       "Hunyuan 3D session",
		Description: "Session cookies used by h3dstudio",
	})
}

// Load returns the stored session, or h3d.ErrNoSession.
func (s *CredentialsService) Load() (*h3d.Credentials, error) {
	item, err := s.ring.Get(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, h3d.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var creds h3d.Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	if creds.Token == "" {
		return nil, h3d.ErrNoSession
	}
	return &creds, nil
}

func (s *CredentialsService) Delete() error {
	err := s.ring.Remove(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *CredentialsService) HasSession() bool {
	_, err := s.Load()
	return err == nil
}
