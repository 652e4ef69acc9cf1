package quiz

import "sort"

// RankOf orders submissions by score (desc) then submission time (asc) and
// returns the 1-based position of the student. ok is false if the student has not submitted.
func RankOf(subs []QuizSubmission, studentID int64) (r Rank, ok bool) {
	ordered := make([]QuizSubmission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.ID < b.ID
	})

	for i, sub := range ordered {
		if sub.StudentID == studentID {
			return Rank{Rank: i + 1, Total: len(ordered), Score: sub.Score}, true
		}
	}
	return Rank{}, false
}
