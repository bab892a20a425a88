// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sentiment

// English and Vietnamese polarity words. Multi-word entries match as token
// sequences; the longest entry wins where entries overlap ("nhàm chán"
// before "chán").
var positiveWords = []string{
	// English
	"good", "great", "excellent", "amazing", "awesome", "wonderful", "fantastic",
	"brilliant", "love", "loved", "best", "beautiful", "enjoyable", "enjoyed",
	"masterpiece", "perfect", "superb", "stunning", "impressive", "fun", "funny",
	"hilarious", "touching", "captivating", "outstanding", "recommend",
	"entertaining", "gripping", "powerful", "moving", "incredible", "solid",
	"charming", "memorable", "thrilling", "well made",
	// Vietnamese
	"hay", "tuyệt vời", "tuyệt", "xuất sắc", "tốt", "đẹp", "thích", "yêu",
	"ấn tượng", "hấp dẫn", "cảm động", "đỉnh", "vui", "hài hước", "lôi cuốn",
	"đáng xem",
}

var negativeWords = []string{
	// English
	"bad", "terrible", "awful", "boring", "worst", "poor", "horrible", "hate",
	"hated", "disappointing", "disappointed", "dull", "waste", "weak",
	"mediocre", "predictable", "confusing", "slow", "annoying", "stupid",
	"overrated", "mess", "forgettable", "lame", "ugly", "painful", "bland",
	"flat", "pointless", "cringe",
	// Vietnamese
	"dở", "tệ", "chán", "nhàm chán", "kém", "thất vọng", "ghét", "tồi", "nhạt",
	"dài dòng", "khó hiểu", "lãng phí", "phí tiền",
}

// Aspect names in report order.
const (
	AspectActing    = "acting"
	AspectPlot      = "plot"
	AspectVisuals   = "visuals"
	AspectSound     = "sound"
	AspectDirecting = "directing"
)

// AspectNames lists every aspect in report order.
var AspectNames = []string{AspectActing, AspectPlot, AspectVisuals, AspectSound, AspectDirecting}

var aspectKeywords = map[string][]string{
	AspectActing: {
		"acting", "actor", "actors", "actress", "actresses", "cast", "performance",
		"performances", "role", "character", "characters",
		"diễn xuất", "diễn viên", "vai diễn", "nhân vật",
	},
	AspectPlot: {
		"plot", "story", "storyline", "script", "narrative", "ending", "twist",
		"writing", "pacing",
		"cốt truyện", "kịch bản", "nội dung", "câu chuyện", "kết thúc",
	},
	AspectVisuals: {
		"visual", "visuals", "cinematography", "effects", "cgi", "graphics",
		"scenery", "camera", "shots", "animation", "vfx",
		"hình ảnh", "kỹ xảo", "quay phim", "bối cảnh",
	},
	AspectSound: {
		"sound", "music", "soundtrack", "audio", "score", "songs", "song",
		"âm thanh", "nhạc", "âm nhạc", "nhạc phim",
	},
	AspectDirecting: {
		"director", "directing", "direction", "directed", "filmmaking",
		"đạo diễn", "dàn dựng",
	},
}

// Contrastive conjunctions end a clause so "great acting but a boring plot"
// scores each side on its own.
var contrastiveWords = []string{
	"but", "however", "although", "though", "yet", "whereas",
	"nhưng", "tuy nhiên", "mặc dù",
}

var stopwords = []string{
	// English
	"a", "an", "the", "and", "or", "but", "is", "are", "was", "were", "be",
	"been", "being", "am", "i", "me", "my", "we", "our", "you", "your", "he",
	"she", "it", "its", "they", "them", "their", "this", "that", "these",
	"those", "of", "in", "on", "at", "to", "for", "with", "by", "from", "as",
	"so", "too", "very", "really", "just", "than", "then", "there", "here",
	"have", "has", "had", "do", "does", "did", "not", "no", "all", "any",
	"some", "more", "most", "much", "can", "could", "would", "should", "will",
	"what", "which", "who", "when", "where", "how", "if", "about", "into",
	"also", "quite", "bit", "s", "t",
	// Vietnamese
	"và", "là", "của", "có", "thì", "mà", "một", "những", "các", "cái", "này",
	"đó", "rất", "quá", "lắm", "cũng", "được", "bị", "với", "cho", "trong",
	"khi", "đã", "đang", "sẽ", "thật", "rồi", "nhé", "nha", "ạ", "tôi", "mình",
	"bạn", "phim",
}
