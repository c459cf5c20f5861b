package services

import (
	"strings"

	"moodtunes/internal/models"
)

// languageKeywords are checked in order; the first language with a matching
// keyword wins, so a title mentioning both Hindi and Punjabi counts as Hindi
var languageKeywords = []struct {
	language string
	keywords []string
}{
	{language: "Hindi", keywords: []string{"hindi", "bollywood"}},
	{language: "Punjabi", keywords: []string{"punjabi", "punjab", "bhangra"}},
	{language: "Tamil", keywords: []string{"tamil", "kollywood"}},
	{language: "Telugu", keywords: []string{"telugu", "tollywood"}},
	{language: "Korean", keywords: []string{"korean", "k-pop", "kpop"}},
	{language: "Spanish", keywords: []string{"spanish", "español", "latino"}},
}

// searchKeywords is the term added to provider queries for each language
var searchKeywords = map[string]string{
	"English": "english",
	"Hindi":   "hindi",
	"Punjabi": "punjabi",
	"Tamil":   "tamil",
	"Telugu":  "telugu",
	"Korean":  "korean",
	"Spanish": "spanish",
}

// InferLanguage guesses a video's language from its title, description and
// channel name. It is a keyword heuristic; videos with no telling keyword
// are reported as English whatever bucket they were searched under.
func InferLanguage(video *models.VideoCandidate) string {
	if video == nil {
		return models.DefaultLanguage
	}

	text := strings.ToLower(video.Title + " " + video.Description + " " + video.ChannelTitle)
	for _, entry := range languageKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.language
			}
		}
	}
	return models.DefaultLanguage
}

// SearchKeyword returns the query term for a language; unknown languages
// are passed through lowercased
func SearchKeyword(language string) string {
	if keyword, ok := searchKeywords[language]; ok {
		return keyword
	}
	return strings.ToLower(language)
}
