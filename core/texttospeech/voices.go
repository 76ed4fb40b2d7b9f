package texttospeech

// Voice identifies a synthesis voice. The catalogue mirrors Deepgram's Aura 2
// English voices; other backends may accept a superset.
type Voice string

const (
	VoiceThalia  Voice = "aura-2-thalia-en"
	VoiceAsteria Voice = "aura-2-asteria-en"
	VoiceOrion   Voice = "aura-2-orion-en"
	VoiceArcas   Voice = "aura-2-arcas-en"
	VoiceLuna    Voice = "aura-2-luna-en"
	VoiceHelios  Voice = "aura-2-helios-en"
)

// DefaultVoice is used for echo replies, chat replies and fallback synthesis.
const DefaultVoice = VoiceThalia

func AvailableVoices() []Voice {
	return []Voice{
		VoiceThalia,
		VoiceAsteria,
		VoiceOrion,
		VoiceArcas,
		VoiceLuna,
		VoiceHelios,
	}
}
