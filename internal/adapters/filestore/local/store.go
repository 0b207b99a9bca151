package local

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pet-alert/internal/ports/filestore"
)

// Store guarda imágenes en disco y las referencia como /uploads/<archivo>.
type Store struct {
	baseDir string
}

const refPrefix = "/uploads/"

func NewStore(baseDir string) (*Store, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) SaveBase64(ctx context.Context, payloads []string, prefix string) ([]string, error) {
	refs := make([]string, 0, len(payloads))

	for _, payload := range payloads {
		raw, err := decodeBase64Image(payload)
		if err != nil {
			return nil, err
		}

		name := fmt.Sprintf("%s_%s.jpg", sanitizePrefix(prefix), uuid.NewString())
		if err := os.WriteFile(filepath.Join(s.baseDir, name), raw, 0o644); err != nil {
			return nil, fmt.Errorf("guardar imagen: %w", err)
		}

		refs = append(refs, refPrefix+name)
	}

	return refs, nil
}

func (s *Store) Delete(ctx context.Context, refs []string) error {
	for _, ref := range refs {
		name := strings.TrimPrefix(ref, refPrefix)
		if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
			// referencia ajena a este store: se ignora
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// decodeBase64Image acepta payloads crudos o con prefijo data-URI
// ("data:image/png;base64,....").
func decodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, filestore.ErrEmptyPayload
	}

	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decodificar base64: %w", err)
	}
	return raw, nil
}

func sanitizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "img"
	}
	prefix = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, prefix)
	return prefix
}
