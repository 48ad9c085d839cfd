package coach

import "github.com/okian/rlcoach/internal/domain/stats"

// Fixed advice strings per canonical metric. Short-term tips address
// weaknesses, long-term tips reinforce strengths.
var shortTermAdvice = map[string]string{
	stats.KeyBoostUsage: "Work on managing your boost more efficiently. Try to use small pads to stay stocked.",
	stats.KeyFlipCount:  "Practice aerial control and flipping mechanics in free play to increase your flip count.",
	stats.KeyShots:      "Focus on taking more shots during matches. Position yourself to create shooting opportunities.",
	stats.KeyGoals:      "Work on finishing plays and accuracy to convert shots into goals.",
}

var longTermAdvice = map[string]string{
	stats.KeyBoostUsage: "Continue to refine your boost management. Use efficient routes to maintain high boost levels.",
	stats.KeyFlipCount:  "Keep practicing advanced movement like wave dashes and flip resets to stay ahead.",
	stats.KeyShots:      "Maintain your shooting pace; practice different angles and power shots.",
	stats.KeyGoals:      "Keep improving goal conversion by working on placement and deception.",
}

// Tips maps comparison output to ordered advice lists. Keys outside the
// canonical set produce no tip. Iteration follows the canonical key
// order so the same comparison always yields the same lists.
func Tips(strengths, weaknesses map[string]float64) (shortTerm, longTerm []string) {
	for _, key := range stats.Keys() {
		if _, ok := weaknesses[key]; ok {
			shortTerm = append(shortTerm, shortTermAdvice[key])
		}
	}
	for _, key := range stats.Keys() {
		if _, ok := strengths[key]; ok {
			longTerm = append(longTerm, longTermAdvice[key])
		}
	}
	return shortTerm, longTerm
}
