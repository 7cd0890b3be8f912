package domain

// Response is the only output of the dialogue core toward the transport.
type Response struct {
	Text     string            `json:"text"`
	TTS      bool              `json:"tts"`
	Language string            `json:"language,omitempty"`
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

type ResponseMetadata struct {
	Intent     Intent  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Slots      *Slots  `json:"slots,omitempty"`
}
