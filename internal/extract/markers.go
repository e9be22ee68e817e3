package extract

// Marker sets for the built-in keyword scorer. These are data, not logic:
// tuning them never changes scoring behavior beyond hit counts.

// #region formality-markers

// formalTier1 are strong formality markers.
var formalTier1 = []string{
	"per our conversation", "pursuant", "kindly", "regarding",
	"i would appreciate", "please advise", "sincerely",
	"to whom it may concern", "as per", "attached please find",
	"at your earliest convenience", "please find",
}

// formalTier2 are mild formality markers.
var formalTier2 = []string{
	"please", "thank you", "however", "therefore", "additionally",
	"furthermore", "regards", "apologies", "confirm", "schedule",
	"appreciate", "following up",
}

var casualMarkers = []string{
	"yeah", "nah", "lol", "gonna", "wanna", "kinda", "sorta",
	"dude", "haha", "omg", "btw", "idk", "yep", "nope",
	"totally", "super", "hey",
}

// #endregion formality-markers

// #region emotion-markers

var emotionMarkers = []string{
	"love", "hate", "excited", "thrilled", "scared", "angry",
	"sad", "happy", "frustrated", "anxious", "amazing", "awful",
	"wonderful", "terrible", "furious", "delighted", "worried",
	"overwhelmed", "miserable", "grateful",
}

// #endregion emotion-markers

// #region authenticity-markers

var authenticMarkers = []string{
	"honestly", "to be honest", "i feel", "i think", "i'm not sure",
	"i don't know", "actually i", "for me", "i guess", "i wonder",
	"it feels like", "i need",
}

var performativeMarkers = []string{
	"happy to help", "no worries at all", "great question",
	"absolutely love", "i'm thrilled", "so excited to",
	"looking forward", "it's my pleasure", "sounds great",
	"will do", "on it",
}

var hedgingMarkers = []string{
	"sort of", "kind of", "maybe", "perhaps", "i suppose",
	"possibly", "somewhat", "a bit", "in a sense", "more or less",
}

var overcompMarkers = []string{
	"totally", "absolutely", "perfect", "definitely", "100%",
	"completely", "literally the best", "love this",
	"couldn't agree more", "no problem at all",
}

// #endregion authenticity-markers

// #region tension-markers

var stressMarkers = []string{
	"deadline", "asap", "urgent", "stressed", "pressure",
	"can't keep up", "too much", "exhausted", "overwhelmed",
	"busy", "swamped", "behind on", "running late",
}

var relaxedMarkers = []string{
	"chill", "relaxed", "easy", "no rush", "calm", "comfortable",
	"cozy", "taking it slow", "unwind", "peaceful", "resting",
}

// #endregion tension-markers

// #region sarcasm-markers

var sarcasmMarkers = []string{
	"yeah right", "sure, whatever", "oh great", "just great",
	"totally fine", "couldn't be better", "oh wonderful",
	"of course it did", "no, really", "love that for me",
}

// #endregion sarcasm-markers
