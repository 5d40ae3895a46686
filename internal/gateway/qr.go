package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ServeRoomQR renders a QR code of a room's join URL, so the host can
// put it on screen instead of reading the code out loud. 404 for rooms
// that are not live.
func (g *Gateway) ServeRoomQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if _, err := g.rooms.GetRoom(code); err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	joinURL := fmt.Sprintf("%s/?room=%s", g.baseURL, code)

	qrc, err := qrcode.NewWith(joinURL,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("failed to build QR code")
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err := qrc.Save(writer); err != nil {
		log.Error().Err(err).Str("room", code).Msg("failed to render QR code")
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
