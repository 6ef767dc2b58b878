package domain

import "fmt"

// EpisodeID builds the stable identifier used for watched-episode
// bookkeeping. Season IDs are unique per show, so the pair is globally
// unique.
func EpisodeID(seasonID string, episodeNumber int) string {
	return fmt.Sprintf("%s/e%d", seasonID, episodeNumber)
}

// SeasonID builds the conventional identifier for a season of a show
func SeasonID(showID string, seasonNumber int) string {
	return fmt.Sprintf("%s/s%d", showID, seasonNumber)
}
