package domain

const (
	// GenreGeneral is the catch-all label stored when the model answers with
	// something outside the candidate set.
	GenreGeneral = "General"
	// GenrePredictionError is stored when the model could not be reached at
	// all, so operators can tell taxonomy misses from outages.
	GenrePredictionError = "Prediction Error"
)

// DefaultGenres returns the stock taxonomy. Callers get a fresh slice and may
// mutate it freely.
func DefaultGenres() []string {
	return []string{
		"Fiction", "Science Fiction", "Fantasy", "Mystery", "Thriller",
		"Horror", "Romance", "Historical Fiction", "History", "Biography",
		"Autobiography", "Philosophy", "Psychology", "Politics", "Business",
		"Economics", "World News", "Health", "Education", "Art", "Music",
		"Photography", "Cooking", "Travel", "Sports", "Entertainment",
		"Technology", "Science",
	}
}
