package models

// RunSummary is the machine-readable result of one check run. The JSON keys
// match the summary object the deployment's scheduler already parses.
type RunSummary struct {
	OK             bool `json:"ok"`
	NewCars        int  `json:"new_cars_count"`
	TotalCount     int  `json:"total_count"`
	PreviouslySeen int  `json:"previously_seen"`
	CurrentlySeen  int  `json:"currently_seen"`
}
