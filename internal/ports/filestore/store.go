package filestore

import (
	"context"
	"errors"
)

var ErrEmptyPayload = errors.New("empty payload")

// Store persiste imágenes y devuelve referencias opacas (URLs o paths).
// El core nunca inspecciona el contenido: base64 entra, referencia sale.
type Store interface {
	// SaveBase64 decodifica cada payload (acepta prefijo data-URI) y lo
	// guarda bajo un nombre derivado de prefix. Devuelve una referencia
	// por payload, en el mismo orden.
	SaveBase64(ctx context.Context, payloads []string, prefix string) ([]string, error)

	// Delete elimina los archivos referenciados. Referencias desconocidas
	// se ignoran: el borrado es best-effort.
	Delete(ctx context.Context, refs []string) error
}
