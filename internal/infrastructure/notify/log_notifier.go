package notify

import (
	"storefront-backend/internal/domain"

	"github.com/rs/zerolog"
)

// LogNotifier writes every notification as a debug line.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(l *zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(note domain.Notification) {
	n.log.Debug().
		Str("kind", string(note.Kind)).
		Str("product_id", note.ProductID).
		Str("color", note.Color).
		Int("quantity", note.Quantity).
		Msg(note.Message)
}
