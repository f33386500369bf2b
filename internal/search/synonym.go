package search

// synonyms maps a normalized search phrase to alternative phrasings that job
// titles and descriptions commonly use instead.
var synonyms = map[string][]string{
	"frontend":         {"front end", "front-end", "ui engineer"},
	"backend":          {"back end", "back-end", "server side"},
	"fullstack":        {"full stack", "full-stack"},
	"golang":           {"go developer", "go engineer"},
	"devops":           {"site reliability", "platform engineer", "sre"},
	"qa":               {"quality assurance", "tester", "test engineer"},
	"ui ux":            {"ui designer", "ux designer", "product designer"},
	"designer":         {"graphic designer", "desainer"},
	"admin":            {"administrasi", "staff admin", "administrative"},
	"office boy":       {"office helper", "ob", "general affair"},
	"driver":           {"sopir", "supir", "kurir"},
	"accounting":       {"akuntansi", "accountant", "finance staff"},
	"customer service": {"cs", "customer support", "call center"},
	"sales":            {"marketing", "account executive", "penjualan"},
}

// Synonyms returns the alternatives registered for a normalized phrase.
func Synonyms(phrase string) []string {
	return synonyms[phrase]
}
