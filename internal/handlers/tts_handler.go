package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/middleware"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

// SpeechSynthesizer is implemented by *tts.Client
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	Configured() bool
}

type TTSHandler struct {
	synthesizer SpeechSynthesizer
	logger      *zap.Logger
}

func NewTTSHandler(synthesizer SpeechSynthesizer, logger *zap.Logger) *TTSHandler {
	return &TTSHandler{
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// SynthesizeHandler returns MP3 audio, or tells the client to speak the text itself
func (h *TTSHandler) SynthesizeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TTSRequest](r)

	if h.synthesizer == nil || !h.synthesizer.Configured() {
		writeBrowserFallback(w, req.Text)
		return
	}

	audio, err := h.synthesizer.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		h.logger.Warn("Speech synthesis failed, falling back to browser TTS",
			zap.String("voice", req.Voice), zap.Error(err))
		writeBrowserFallback(w, req.Text)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func writeBrowserFallback(w http.ResponseWriter, text string) {
	utils.JSON(w, http.StatusOK, models.TTSFallbackResponse{
		Message:  "Using browser text-to-speech",
		Fallback: "browser_tts",
		Text:     text,
	})
}
