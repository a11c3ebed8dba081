package domain

// Sentiment is the three-way review category. The dataset keeps the original
// Spanish category names in its column headers and dominant values, so the
// canonical string forms are "Positivo", "Negativo" and "Neutral".
type Sentiment string

const (
	Positive Sentiment = "Positivo"
	Negative Sentiment = "Negativo"
	Neutral  Sentiment = "Neutral"
)

// Sentiments lists the categories in dominance precedence: on a tied count
// Positivo wins over Neutral, Neutral over Negativo.
var Sentiments = [3]Sentiment{Positive, Neutral, Negative}

// Score maps the category to its fixed numeric sentiment score.
func (s Sentiment) Score() float64 {
	switch s {
	case Positive:
		return 1.0
	case Negative:
		return 0.0
	default:
		return 0.5
	}
}

// Color is the RGBA map encoding for a dominant sentiment: green, red,
// yellow, gray for anything unknown.
func (s Sentiment) Color() [4]uint8 {
	switch s {
	case Positive:
		return [4]uint8{0, 128, 0, 180}
	case Negative:
		return [4]uint8{255, 0, 0, 180}
	case Neutral:
		return [4]uint8{255, 255, 0, 180}
	default:
		return [4]uint8{128, 128, 128, 180}
	}
}

// ParseSentiment accepts canonical and lowercase forms ("positivo",
// "Positivo"). The bool is false for anything else.
func ParseSentiment(s string) (Sentiment, bool) {
	switch s {
	case "Positivo", "positivo":
		return Positive, true
	case "Negativo", "negativo":
		return Negative, true
	case "Neutral", "neutral":
		return Neutral, true
	}
	return "", false
}
