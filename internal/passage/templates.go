package passage

import "sort"

var (
	basicTemplates = []string{
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
		"How vexingly quick daft zebras jump!",
		"Sphinx of black quartz, judge my vow.",
		"Amazingly few discotheques provide jukeboxes.",
	}
	commonTemplates = []string{
		"Please send the reports to everyone by email.",
		"The meeting is scheduled for next Tuesday at noon.",
		"Remember to save your work before closing the application.",
		"Could you please confirm your reservation for dinner tonight?",
		"Thank you for your prompt response to our inquiry.",
	}
	technicalTemplates = []string{
		"function calculateTotal(items) { return items.reduce((sum, item) => sum + item.price, 0); }",
		"const userData = await fetchUserProfile(userId); if (userData.status === 200) { renderProfile(userData); }",
		"SELECT users.name, orders.date FROM users JOIN orders ON users.id = orders.user_id WHERE orders.status = 'completed';",
		"git commit -m 'Fix: resolve issue with authentication middleware' && git push origin main",
		"<div className=\"container mx-auto p-4\"><h1 className=\"text-2xl font-bold\">Welcome</h1></div>",
	}
)

// templatesForLevel maps a profile level to a template pool.
func templatesForLevel(level int) []string {
	switch {
	case level <= 2:
		return basicTemplates
	case level == 5:
		return technicalTemplates
	default:
		return commonTemplates
	}
}

var wordsByChar = map[string][]string{
	"a": {"amazing", "application", "available", "advantage", "actually"},
	"b": {"between", "because", "business", "beautiful", "building"},
	"c": {"complete", "consider", "continue", "company", "character"},
	"d": {"different", "development", "document", "direction", "decision"},
	"e": {"everything", "experience", "example", "environment", "especially"},
	"f": {"following", "function", "feature", "feedback", "forward"},
	"g": {"general", "government", "generation", "growing", "greatest"},
	"h": {"however", "history", "himself", "hundred", "happened"},
	"i": {"important", "information", "including", "industry", "interest"},
	"j": {"journey", "justice", "joining", "judgment", "justify"},
	"k": {"knowledge", "keeping", "kitchen", "kingdom", "keyboard"},
	"l": {"looking", "learning", "language", "leadership", "location"},
	"m": {"management", "material", "movement", "mentioned", "multiple"},
	"n": {"national", "necessary", "network", "nothing", "northern"},
	"o": {"operation", "opportunity", "organization", "obviously", "otherwise"},
	"p": {"position", "particular", "performance", "population", "political"},
	"q": {"question", "quality", "quickly", "quantity", "qualified"},
	"r": {"research", "relationship", "remember", "required", "response"},
	"s": {"something", "significant", "structure", "statement", "situation"},
	"t": {"together", "technology", "treatment", "throughout", "therefore"},
	"u": {"understand", "university", "ultimately", "usually", "understanding"},
	"v": {"various", "valuable", "version", "variable", "vertical"},
	"w": {"without", "working", "whatever", "whether", "welcome"},
	"x": {"example", "experience", "exchange", "exercise", "exactly"},
	"y": {"yourself", "yesterday", "younger", "yearly", "yielding"},
	"z": {"zealous", "zooming", "zigzag", "zenith", "zephyr"},
}

// vocabularyKeys fixes iteration order over wordsByChar.
var vocabularyKeys = func() []string {
	keys := make([]string, 0, len(wordsByChar))
	for k := range wordsByChar {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()
