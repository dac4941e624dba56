package query

// Keyword sets for query classification. Counts of these terms decide the
// dominant modality; the music/speech subsets re-split audio-leaning
// queries in SelectWeights.

// VisualKeywords signal intent about what is seen on screen.
var VisualKeywords = []string{
	"see", "look", "watch", "scene", "visual", "image", "picture", "photo",
	"color", "face", "appear", "screen", "frame", "shot", "clip", "show",
	"wearing", "background",
}

// MusicKeywords signal intent about non-speech sound.
var MusicKeywords = []string{
	"music", "song", "melody", "tune", "beat", "rhythm", "soundtrack",
	"instrumental", "singing", "sing", "bgm", "chorus",
}

// SpeechKeywords signal intent about spoken content.
var SpeechKeywords = []string{
	"say", "says", "said", "speak", "speech", "talk", "mention", "word",
	"quote", "conversation", "dialogue", "voice", "narrat", "announce",
	"discuss",
}

// AudioKeywords is the full audio category: general sound terms plus the
// music subset.
var AudioKeywords = append([]string{
	"sound", "audio", "noise", "hear", "loud", "quiet",
}, MusicKeywords...)
