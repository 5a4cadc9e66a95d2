package service

// ClusterSummary records one cluster's scoring outcome for diagnostic
// reporting: the seed host that started the walk, every member the walk
// collected, the winning region, and every region's raw score (poisoned
// regions score -1).
type ClusterSummary struct {
	Seed    string
	Members []string
	Winner  string
	Scores  map[string]float64
}
