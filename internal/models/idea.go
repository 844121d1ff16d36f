package models

import "encoding/json"

// Idea is a single candidate produced by the idea generator.
//
// ID is 1-based and follows the order in which the model listed the ideas.
type Idea struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// RankedIdea is an Idea scored by the ranker.
//
// Score is always Relevance + Impact + Feasibility.
type RankedIdea struct {
	Idea

	Relevance   int    `json:"relevance"`
	Impact      int    `json:"impact"`
	Feasibility int    `json:"feasibility"`
	Reason      string `json:"reason,omitempty"`
	Score       int    `json:"score"`
}

// RankingEntry is one object of the ranking reported by the model.
type RankingEntry struct {
	ID          int    `json:"id"`
	Relevance   int    `json:"relevance"`
	Impact      int    `json:"impact"`
	Feasibility int    `json:"feasibility"`
	Reason      string `json:"reason"`
}

// SelectedIdea is an idea picked by the caller for detailed suggestions. It is trusted as is.
//
// ID is any JSON value and is echoed back verbatim. It's omitted from the output when the caller sent none.
type SelectedIdea struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Text string          `json:"text"`
}

// SuggestionDetail is the breakdown of a selected idea.
type SuggestionDetail struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Title       string          `json:"title"`
	Overview    string          `json:"overview"`
	Suggestions []string        `json:"suggestions"`
}
