// Package domain contains core business entities and rules.
package domain

// Quote is a quotation with its author.
// It is produced only by decoding a successful quote API response and is
// never mutated afterwards; pass it by value.
type Quote struct {
	// Author is who said or wrote the quote.
	Author string

	// Content is the text of the quote.
	Content string
}
