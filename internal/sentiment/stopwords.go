package sentiment

import "strings"

// Stopword inventory for the word-frequency view: common English and Spanish
// words plus detailing-domain terms that dominate every review regardless of
// sentiment. The classifier does not use this list; only the word counts do.
var stopwordList = []string{
	// English
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves", "he", "him",
	"his", "himself", "she", "her", "hers", "herself", "it", "its",
	"itself", "they", "them", "their", "theirs", "themselves", "what",
	"which", "who", "whom", "this", "that", "these", "those", "am",
	"is", "are", "was", "were", "be", "been", "being", "have", "has",
	"had", "having", "do", "does", "did", "doing", "a", "an", "the",
	"and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to",
	"from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "then", "once", "here", "there", "when",
	"where", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not",
	"only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "should", "now",
	// Spanish
	"al", "algo", "algunas", "algunos", "ante", "antes", "como", "con",
	"contra", "cual", "cuando", "de", "del", "desde", "donde", "durante",
	"e", "el", "ella", "ellas", "ellos", "en", "entre", "es", "esa", "esas",
	"ese", "eso", "esos", "esta", "estas", "este", "esto", "estos", "ha",
	"hace", "hacer", "haces", "hacemos", "hacen", "hacia", "hasta", "hay",
	"la", "las", "le", "les", "lo", "los", "más", "mi", "mis", "muy",
	"ni", "para", "pero", "por", "porque", "que", "se",
	"si", "sin", "sino", "sobre", "su", "sus", "te", "tenemos", "tienes",
	"todo", "todos", "un", "una", "unas", "uno", "unos", "y", "yo",
	// Detailing domain
	"car", "vehicle", "auto", "truck", "coche", "carro", "camioneta",
	"service", "time", "place", "shop", "job", "get", "got", "day",
	"work", "really", "much", "looks", "new", "definitely", "like",
	"would", "also", "back", "detailing", "detail", "great", "good",
	"amazing",
}

var stopwords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}()

// IsStopword reports whether the lowercased word is filtered from word counts.
func IsStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}
