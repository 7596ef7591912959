// Package moderation rejects free-text submissions that contain
// deny-listed terms or look structurally like spam. It is deliberately a
// dumb substring matcher: false positives and negatives are accepted in
// exchange for predictability.
package moderation

import (
	"fmt"
	"strings"
	"unicode"
)

type Result struct {
	Valid       bool     `json:"valid"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

var denyList = []string{
	"shit", "fuck", "bitch", "asshole", "bastard", "dick",
	"cunt", "slut", "whore", "nigger", "faggot", "retard",
	"kill yourself", "kys",
}

const (
	maxDigitRatio = 0.5
	maxPunctRatio = 0.3
	maxCharRun    = 3
)

// Check validates a free-text submission. Matching is case-insensitive
// substring containment, so "SHIT happens" and "bullshitting" both fail.
func Check(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Valid: false, Reason: "content is empty"}
	}

	lower := strings.ToLower(trimmed)
	for _, word := range denyList {
		if strings.Contains(lower, word) {
			return Result{Valid: false, Reason: "contains inappropriate language"}
		}
	}

	runes := []rune(trimmed)
	digits, punct := 0, 0
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punct++
		}
	}

	if float64(digits) > maxDigitRatio*float64(len(runes)) {
		return Result{Valid: false, Reason: "too many digits"}
	}
	if float64(punct) > maxPunctRatio*float64(len(runes)) {
		return Result{Valid: false, Reason: "too much punctuation"}
	}

	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run > maxCharRun {
				return Result{Valid: false, Reason: "repeated characters"}
			}
		} else {
			run = 1
		}
	}

	return Result{Valid: true}
}

// CheckAlias validates an anonymous display name. On rejection it offers a
// few neutral fallbacks so the client can re-submit without a round trip of
// guesswork.
func CheckAlias(alias string) Result {
	res := Check(alias)
	if res.Valid {
		return res
	}

	res.Suggestions = make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		res.Suggestions = append(res.Suggestions, fmt.Sprintf("anonymous_user_%d", i))
	}
	return res
}
