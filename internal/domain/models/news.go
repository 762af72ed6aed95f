package models

import "time"

// Article is a news article about a company.
type Article struct {
	Source      string    `json:"source" example:"Reuters"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// ArticleSentiment is the model's reading of one article.
type ArticleSentiment struct {
	SentimentScore float64 `json:"sentiment_score" example:"0.4"`
	Confidence     float64 `json:"confidence" example:"0.8"`
	KeyDrivers     string  `json:"key_drivers"`
	MarketImpact   string  `json:"market_impact"`
	Source         string  `json:"source" example:"Reuters"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	PublishedAt    string  `json:"published_at"`
}
